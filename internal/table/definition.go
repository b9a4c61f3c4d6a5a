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
	"fmt"
	"path/filepath"

	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/storage"
)

const (
	indexFileName = ".index.dsto"
	statsFileName = ".stats.dsto"
)

// Definition is a table's schema and its location on a backend: the set
// of declared columns, independent of whether the table has been loaded
// for reading/writing yet.
type Definition struct {
	backend storage.Backend
	dbDir   string
	Name    string
	Columns []column.Column
}

func dir(dbDir, name string) string {
	return filepath.Join(dbDir, name)
}

// Create lays down a brand new table: its directory, index, stats, and
// one file per declared column. CreateIfAbsent makes this safe to call
// again for a table that already exists with the same columns.
func Create(backend storage.Backend, dbDir, name string, columns []column.Column) (*Definition, error) {
	d := dir(dbDir, name)
	if err := backend.EnsureDir(d); err != nil {
		return nil, fmt.Errorf("create table %s: %w", name, err)
	}
	if err := backend.CreateIfAbsent(d, indexFileName); err != nil {
		return nil, fmt.Errorf("create table %s: %w", name, err)
	}
	if err := backend.CreateIfAbsent(d, statsFileName); err != nil {
		return nil, fmt.Errorf("create table %s: %w", name, err)
	}
	for _, c := range columns {
		if err := backend.CreateIfAbsent(d, c.FileName()); err != nil {
			return nil, fmt.Errorf("create table %s: column %s: %w", name, c.Name, err)
		}
	}
	return &Definition{backend: backend, dbDir: dbDir, Name: name, Columns: columns}, nil
}

// Open reconstructs a table's column list by listing its directory and
// parsing file names, rather than from a separate schema record.
func Open(backend storage.Backend, dbDir, name string) (*Definition, error) {
	d := dir(dbDir, name)
	names, err := backend.ListFiles(d)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", name, err)
	}
	if len(names) == 0 {
		// A directory that was actually Create'd always has at least its
		// index and stats files; an empty listing means the table was
		// never created.
		return nil, fmt.Errorf("open table %s: %w", name, ErrTableNotFound)
	}

	var columns []column.Column
	for _, n := range names {
		if c, ok := column.ParseFileName(n); ok {
			columns = append(columns, c)
		}
	}
	return &Definition{backend: backend, dbDir: dbDir, Name: name, Columns: columns}, nil
}

// Load opens the index and stats files backing this definition and
// returns a Table ready for Insert/Query.
func (d *Definition) Load() (*Table, error) {
	dirPath := dir(d.dbDir, d.Name)
	if err := d.backend.EnsureDir(dirPath); err != nil {
		return nil, err
	}

	indexFile, err := d.backend.Open(dirPath, indexFileName)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", d.Name, err)
	}
	statsFile, err := d.backend.Open(dirPath, statsFileName)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", d.Name, err)
	}
	stats, err := LoadStats(statsFile)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", d.Name, err)
	}

	return &Table{
		definition: d,
		stats:      stats,
		index:      NewIndex(indexFile),
		indexFile:  indexFile,
	}, nil
}

// ResolveColumns maps column names to their Definition, failing with
// ErrUnknownColumn on the first name that isn't declared.
func (d *Definition) ResolveColumns(names []string) ([]column.Column, error) {
	cols := make([]column.Column, 0, len(names))
	for _, n := range names {
		c, ok := d.resolveColumn(n)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, n)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func (d *Definition) resolveColumn(name string) (column.Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return column.Column{}, false
}
