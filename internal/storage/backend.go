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
// Package storage provides the byte-addressable file primitives the table
// engine builds its fixed-width on-disk format on top of. It deliberately
// knows nothing about columns, rows, or tables — just directories and
// files.
package storage

import (
	"errors"
	"io"
)

// ErrNotFound is the error kind for a file that does not exist. Neither
// FileBackend nor S3Backend returns it: both Open a missing file as a new
// empty one.
var ErrNotFound = errors.New("storage: file not found")

// RandomAccessFile is a byte-addressable file. The storage engine always
// knows the exact offset it wants to read or write, so the interface is
// built around ReadAt/WriteAt/Append rather than a stream cursor.
type RandomAccessFile interface {
	io.Closer
	// ReadAt reads exactly len(p) bytes starting at offset. It returns
	// io.ErrUnexpectedEOF (wrapped) if fewer bytes are available.
	ReadAt(p []byte, offset int64) (int, error)
	// WriteAt writes p at the given offset, overwriting in place.
	WriteAt(p []byte, offset int64) error
	// Append writes p at the current end of the file.
	Append(p []byte) error
	// Size reports the current length of the file in bytes.
	Size() (int64, error)
}

// Backend abstracts where table directories and their files physically
// live. The default Backend is local disk (FileBackend); an S3-backed
// Backend is available for nodes that want table data mirrored to object
// storage under the same fixed-width on-disk encoding.
type Backend interface {
	// EnsureDir makes sure the directory for a table exists, creating
	// parents as needed.
	EnsureDir(dir string) error
	// CreateIfAbsent creates an empty file at dir/name if one doesn't
	// already exist. It never truncates an existing file. Idempotent.
	CreateIfAbsent(dir, name string) error
	// Open opens dir/name for reading and writing, creating it empty if
	// it doesn't exist yet.
	Open(dir, name string) (RandomAccessFile, error)
	// ListFiles returns the file names directly inside dir (used to
	// reconstruct a table's column list by parsing names on disk).
	ListFiles(dir string) ([]string, error)
}

// ReadOrDefault implements the "read-or-write-default" primitive used to
// lazily initialize fixed-layout header regions (e.g. the stats file):
// it reads len(buf) bytes at offset; on a short/absent read it writes def
// at that same offset and returns that as the effective content.
func ReadOrDefault(f RandomAccessFile, offset int64, buf []byte, def []byte) error {
	_, err := f.ReadAt(buf, offset)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		copy(buf, def)
		return f.WriteAt(def, offset)
	}
	return err
}
