/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package table

import (
	"encoding/binary"

	"github.com/iambriccardo/distribuito/internal/storage"
)

const indexEntrySize = 16

// Index is the append-only (row_id, timestamp) ledger that anchors every
// row in a table, independent of which columns actually stored a value
// for that row.
type Index struct {
	file storage.RandomAccessFile
}

func NewIndex(f storage.RandomAccessFile) *Index {
	return &Index{file: f}
}

func (idx *Index) Append(rowID, timestamp uint64) error {
	var buf [indexEntrySize]byte
	binary.LittleEndian.PutUint64(buf[0:8], rowID)
	binary.LittleEndian.PutUint64(buf[8:16], timestamp)
	return idx.file.Append(buf[:])
}
