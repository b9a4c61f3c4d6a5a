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
package main

import (
	"testing"

	"github.com/iambriccardo/distribuito/internal/storage"
)

func TestOpenBackendSelectsFileBackendForPlainPath(t *testing.T) {
	backend, err := openBackend("/var/lib/distribuito")
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	if _, ok := backend.(*storage.FileBackend); !ok {
		t.Fatalf("expected *storage.FileBackend, got %T", backend)
	}
}

func TestOpenBackendSelectsS3BackendForS3URL(t *testing.T) {
	backend, err := openBackend("s3://my-bucket/tables?region=us-east-1")
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	s3Backend, ok := backend.(*storage.S3Backend)
	if !ok {
		t.Fatalf("expected *storage.S3Backend, got %T", backend)
	}
	if s3Backend.Bucket != "my-bucket" || s3Backend.Prefix != "tables" {
		t.Errorf("got bucket=%q prefix=%q", s3Backend.Bucket, s3Backend.Prefix)
	}
	if s3Backend.Region != "us-east-1" {
		t.Errorf("expected region us-east-1, got %q", s3Backend.Region)
	}
}
