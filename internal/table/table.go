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
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/iambriccardo/distribuito/internal/aggregate"
	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/storage"
)

// Table is a loaded table ready to accept inserts and serve queries.
// Inserts on a single table are serialized by mu: row ids and the
// (row_count, next_row_id) header must advance atomically together, and
// the column/index file layout gives no cheaper way to arbitrate that
// than a mutex per table.
type Table struct {
	definition *Definition

	mu        sync.Mutex
	stats     *Stats
	index     *Index
	indexFile storage.RandomAccessFile
}

func (t *Table) Name() string { return t.definition.Name }

func (t *Table) Columns() []column.Column { return t.definition.Columns }

func (t *Table) dirPath() string { return dir(t.definition.dbDir, t.definition.Name) }

func (t *Table) openColumnFiles(cols []column.Column) ([]storage.RandomAccessFile, func(), error) {
	files := make([]storage.RandomAccessFile, len(cols))
	for i, c := range cols {
		f, err := t.definition.backend.Open(t.dirPath(), c.FileName())
		if err != nil {
			for _, opened := range files[:i] {
				opened.Close()
			}
			return nil, nil, err
		}
		files[i] = f
	}
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	return files, closeAll, nil
}

// Insert appends len(values) rows, each a slice of raw JSON-decoded
// values positionally matching columnNames. Every row gets its own index
// entry and stats increment, even within a single Insert call, matching
// the one-row-at-a-time semantics of the on-disk format.
func (t *Table) Insert(columnNames []string, values [][]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, err := t.definition.ResolveColumns(columnNames)
	if err != nil {
		return err
	}

	columnFiles, closeAll, err := t.openColumnFiles(cols)
	if err != nil {
		return err
	}
	defer closeAll()

	timestamp := uint64(time.Now().Unix())

	for _, row := range values {
		if len(row) != len(cols) {
			return fmt.Errorf("%w: expected %d values, got %d", ErrRowArity, len(cols), len(row))
		}

		encoded := make([][]byte, len(cols))
		for i, raw := range row {
			payload, err := encodeValue(cols[i], raw)
			if err != nil {
				return err
			}
			encoded[i] = payload
		}

		// Write order matters for crash safety: the index entry and every
		// column entry for this row must land before next_row_id advances,
		// so a crash mid-row leaves at worst a row the index knows about
		// that some columns are still missing (a legal sparse read), never
		// a next_row_id that has skipped past a row with no index entry.
		rowID := t.stats.Peek()
		if err := t.index.Append(rowID, timestamp); err != nil {
			return err
		}
		for i, payload := range encoded {
			if err := appendColumnEntry(columnFiles[i], rowID, timestamp, payload); err != nil {
				return err
			}
		}
		if err := t.stats.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Query parses the select/group-by tokens against this table's schema,
// reconstructs the matching rows, and — if any aggregate columns were
// requested — folds them into per-group aggregates.
func (t *Table) Query(selectTokens, groupByTokens []string) (Result, error) {
	projected, aggregates, err := ParseSelect(t.definition.Columns, selectTokens)
	if err != nil {
		return Result{}, err
	}
	groupBy, err := t.definition.ResolveColumns(groupByTokens)
	if err != nil {
		return Result{}, err
	}

	columnFiles, closeAll, err := t.openColumnFiles(projected)
	if err != nil {
		return Result{}, err
	}
	defer closeAll()

	rows, err := assembleRows(projected, t.indexFile, columnFiles)
	if err != nil {
		return Result{}, err
	}

	if len(aggregates) == 0 {
		return Result{Kind: KindRows, Rows: rows}, nil
	}
	return Result{Kind: KindAggregated, Aggregated: aggregateRows(rows, aggregates, groupBy)}, nil
}

func aggregateRows(rows []Row, aggregates []aggregate.Column, groupBy []column.Column) []AggregatedRow {
	type groupEntry struct {
		key   aggregate.GroupKey
		value aggregate.GroupValue
	}

	groups := make(map[string]*groupEntry)
	var order []string

	for _, row := range rows {
		key := aggregate.NewGroupKey(groupBy, row.Value)
		cacheKey := key.CacheKey()

		e, ok := groups[cacheKey]
		if !ok {
			e = &groupEntry{key: key, value: aggregate.NewGroupValue(aggregates)}
			groups[cacheKey] = e
			order = append(order, cacheKey)
		}
		e.value.Add(row.Value)
	}

	result := make([]AggregatedRow, 0, len(order))
	for _, k := range order {
		e := groups[k]
		result = append(result, AggregatedRow{GroupKey: e.key, GroupValue: e.value})
	}
	return result
}

// encodeValue validates raw (a JSON-decoded value, numbers as
// json.Number so integer vs. real literals can be told apart) against
// col's declared type and encodes it to its fixed-width on-disk payload.
func encodeValue(col column.Column, raw any) ([]byte, error) {
	switch v := raw.(type) {
	case json.Number:
		switch col.Type {
		case column.Integer:
			i, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("%w: column %q has type %s, got %s", ErrTypeMismatch, col.Name, col.Type, v)
			}
			return column.Encode(col.Type, column.NewInteger(i)), nil
		case column.Float:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: column %q has type %s, got %s", ErrTypeMismatch, col.Name, col.Type, v)
			}
			return column.Encode(col.Type, column.NewFloat(f)), nil
		default:
			return nil, fmt.Errorf("%w: column %q has type %s, got a number", ErrTypeMismatch, col.Name, col.Type)
		}
	case string:
		if col.Type != column.String {
			return nil, fmt.Errorf("%w: column %q has type %s, got a string", ErrTypeMismatch, col.Name, col.Type)
		}
		return column.Encode(col.Type, column.NewString(v)), nil
	case float64:
		// Only reached if a caller bypassed json.Number decoding.
		return encodeValue(col, json.Number(fmt.Sprintf("%v", v)))
	default:
		return nil, fmt.Errorf("%w: column %q got unsupported value %v", ErrUnsupportedValue, col.Name, raw)
	}
}

func appendColumnEntry(f storage.RandomAccessFile, rowID, timestamp uint64, payload []byte) error {
	buf := make([]byte, indexEntrySize+len(payload))
	binary.LittleEndian.PutUint64(buf[0:8], rowID)
	binary.LittleEndian.PutUint64(buf[8:16], timestamp)
	copy(buf[indexEntrySize:], payload)
	return f.Append(buf)
}
