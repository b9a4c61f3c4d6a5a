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
	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/storage"
)

// Row is one reconstructed table row: the index entry it came from, plus
// one value per requested column (Null where a sparse column had nothing
// recorded for this row).
type Row struct {
	RowID     uint64
	Timestamp uint64
	Columns   []column.Column
	Values    []column.Value
}

// Value looks up this row's value for c by name and type, the lookup
// shape aggregate.GroupKey/GroupValue expect.
func (r Row) Value(c column.Column) (column.Value, bool) {
	for i, rc := range r.Columns {
		if rc.Equal(c) {
			return r.Values[i], true
		}
	}
	return column.Value{}, false
}

// assembleRows reconstructs every row in the table for the given
// projected columns by walking the index and each column's cursor in
// lockstep, per the same_row alignment rule.
func assembleRows(cols []column.Column, indexFile storage.RandomAccessFile, columnFiles []storage.RandomAccessFile) ([]Row, error) {
	idxCursor := NewIndexCursor(indexFile)
	colCursors := make([]*ColumnCursor, len(cols))
	for i, c := range cols {
		colCursors[i] = NewColumnCursor(c, columnFiles[i])
	}

	var rows []Row
	for {
		idxEntry, ok, err := idxCursor.Read()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		values := make([]column.Value, len(cols))
		for i, cursor := range colCursors {
			v, err := valueForRow(cursor, idxEntry)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		rows = append(rows, Row{
			RowID:     idxEntry.RowID,
			Timestamp: idxEntry.Timestamp,
			Columns:   cols,
			Values:    values,
		})
		idxCursor.Advance()
	}
	return rows, nil
}
