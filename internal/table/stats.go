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
	"sync"

	"github.com/iambriccardo/distribuito/internal/storage"
)

const statsFileSize = 16

// Stats is the fixed 16-byte header tracked alongside every table:
// row_count at offset 0, next_row_id at offset 8, both little-endian u64.
// A fresh table reads as all zero via storage.ReadOrDefault, which also
// persists the zeroed header on first touch.
type Stats struct {
	mu        sync.Mutex
	file      storage.RandomAccessFile
	RowCount  uint64
	NextRowID uint64
}

func LoadStats(f storage.RandomAccessFile) (*Stats, error) {
	buf := make([]byte, statsFileSize)
	def := make([]byte, statsFileSize)
	if err := storage.ReadOrDefault(f, 0, buf, def); err != nil {
		return nil, err
	}
	return &Stats{
		file:      f,
		RowCount:  binary.LittleEndian.Uint64(buf[0:8]),
		NextRowID: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// Peek returns the row id the next inserted row will receive, without
// advancing either counter or persisting anything. Callers must write
// that row's index entry and every column entry before calling Commit —
// a crash between Peek and Commit leaves next_row_id exactly where it
// was, so the row simply never happened rather than leaving a gap the
// row-id invariant can't account for.
func (s *Stats) Peek() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.NextRowID
}

// Commit advances both counters by one and persists the new header. It
// must only be called after the row Peek named has already been fully
// written (index entry plus every column entry).
func (s *Stats) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RowCount++
	s.NextRowID++

	var buf [statsFileSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], s.RowCount)
	binary.LittleEndian.PutUint64(buf[8:16], s.NextRowID)
	return s.file.WriteAt(buf[:], 0)
}

// Snapshot reads both counters under lock.
func (s *Stats) Snapshot() (rowCount, nextRowID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.RowCount, s.NextRowID
}
