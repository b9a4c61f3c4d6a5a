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
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileBackend is the default Backend: every table directory and column
// file is a plain local file under RootPath, matching the on-disk
// layout exactly.
type FileBackend struct {
	RootPath string
}

func NewFileBackend(root string) *FileBackend {
	return &FileBackend{RootPath: root}
}

func (b *FileBackend) resolve(dir string) string {
	return filepath.Join(b.RootPath, dir)
}

func (b *FileBackend) EnsureDir(dir string) error {
	return os.MkdirAll(b.resolve(dir), 0o750)
}

// CreateIfAbsent takes a filename and directory, returning success whether
// or not the file already existed.
func (b *FileBackend) CreateIfAbsent(dir, name string) error {
	path := filepath.Join(b.resolve(dir), name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	return f.Close()
}

// Open opens read/write, creating an empty file if missing.
func (b *FileBackend) Open(dir, name string) (RandomAccessFile, error) {
	path := filepath.Join(b.resolve(dir), name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &osFile{f: f}, nil
}

func (b *FileBackend) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(b.resolve(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// osFile adapts *os.File to RandomAccessFile using the stdlib's native
// positional ReadAt/WriteAt (no explicit Seek races between callers).
type osFile struct {
	f *os.File
}

func (o *osFile) ReadAt(p []byte, offset int64) (int, error) {
	n, err := o.f.ReadAt(p, offset)
	if err != nil && errors.Is(err, io.EOF) && n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, err
}

func (o *osFile) WriteAt(p []byte, offset int64) error {
	_, err := o.f.WriteAt(p, offset)
	return err
}

func (o *osFile) Append(p []byte) error {
	_, err := o.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	_, err = o.f.Write(p)
	return err
}

func (o *osFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (o *osFile) Close() error {
	return o.f.Close()
}
