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
	"errors"
	"io"

	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/storage"
)

// entry is one (row_id, timestamp, value) triple read off an index or
// column file. Value is only meaningful for column-file entries.
type entry struct {
	RowID     uint64
	Timestamp uint64
	Value     column.Value
}

// sameRow reports whether an index entry and a column entry refer to the
// same physical row: identical row_id and timestamp.
func sameRow(a, b entry) bool {
	return a.RowID == b.RowID && a.Timestamp == b.Timestamp
}

// IndexCursor walks a table's index file entry by entry. It tracks its
// own position so independent cursors over the same file (e.g. two
// concurrent queries) never interfere — reads are positional (ReadAt),
// not stream-based.
type IndexCursor struct {
	file     storage.RandomAccessFile
	position uint64
}

func NewIndexCursor(f storage.RandomAccessFile) *IndexCursor {
	return &IndexCursor{file: f}
}

// Read returns the entry at the cursor's current position. ok is false
// once the index is exhausted; it does not advance the cursor.
func (c *IndexCursor) Read() (entry, bool, error) {
	buf := make([]byte, indexEntrySize)
	off := int64(c.position) * indexEntrySize
	if _, err := c.file.ReadAt(buf, off); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return entry{}, false, nil
		}
		return entry{}, false, err
	}
	return entry{
		RowID:     binary.LittleEndian.Uint64(buf[0:8]),
		Timestamp: binary.LittleEndian.Uint64(buf[8:16]),
	}, true, nil
}

func (c *IndexCursor) Advance() { c.position++ }

// ColumnCursor walks one column file entry by entry. Column files may be
// sparse (fewer entries than the index), so a cursor can run out before
// the index does; callers treat that as "no more values for this column".
type ColumnCursor struct {
	col       column.Column
	file      storage.RandomAccessFile
	position  uint64
	entrySize int64
}

func NewColumnCursor(col column.Column, f storage.RandomAccessFile) *ColumnCursor {
	return &ColumnCursor{col: col, file: f, entrySize: indexEntrySize + int64(col.Type.Size())}
}

func (c *ColumnCursor) Read() (entry, bool, error) {
	buf := make([]byte, c.entrySize)
	off := int64(c.position) * c.entrySize
	if _, err := c.file.ReadAt(buf, off); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return entry{}, false, nil
		}
		return entry{}, false, err
	}
	return entry{
		RowID:     binary.LittleEndian.Uint64(buf[0:8]),
		Timestamp: binary.LittleEndian.Uint64(buf[8:16]),
		Value:     column.Decode(c.col.Type, buf[indexEntrySize:]),
	}, true, nil
}

func (c *ColumnCursor) Advance() { c.position++ }

// valueForRow advances c past any column entries that belong to earlier
// rows than idxEntry and reports the value for idxEntry if one exists.
// This is the "same_row" cursor-alignment rule from the on-disk format:
// advance on a match or when the column is behind the index; stop
// without advancing when the column has already moved past the index
// (meaning this column has no value for the current row).
func valueForRow(c *ColumnCursor, idxEntry entry) (column.Value, error) {
	for {
		colEntry, ok, err := c.Read()
		if err != nil {
			return column.Value{}, err
		}
		if !ok {
			return column.NewNull(), nil
		}
		switch {
		case sameRow(colEntry, idxEntry):
			c.Advance()
			return colEntry.Value, nil
		case colEntry.RowID > idxEntry.RowID:
			return column.NewNull(), nil
		default:
			c.Advance()
		}
	}
}
