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
	"testing"

	"github.com/iambriccardo/distribuito/internal/storage"
)

func TestStatsCommitPersistsAcrossReload(t *testing.T) {
	backend := storage.NewFileBackend(t.TempDir())
	backend.EnsureDir("t")
	f, err := backend.Open("t", statsFileName)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := LoadStats(f)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		stats.Peek()
		if err := stats.Commit(); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()

	f2, err := backend.Open("t", statsFileName)
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	reloaded, err := LoadStats(f2)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.RowCount != 3 || reloaded.NextRowID != 3 {
		t.Errorf("expected row_count=3 next_row_id=3, got %+v", reloaded)
	}
}

func TestStatsPeekReturnsPreCommitRowID(t *testing.T) {
	backend := storage.NewFileBackend(t.TempDir())
	backend.EnsureDir("t")
	f, _ := backend.Open("t", statsFileName)
	defer f.Close()
	stats, err := LoadStats(f)
	if err != nil {
		t.Fatal(err)
	}

	first := stats.Peek()
	if err := stats.Commit(); err != nil {
		t.Fatal(err)
	}
	second := stats.Peek()
	if err := stats.Commit(); err != nil {
		t.Fatal(err)
	}
	if first != 0 || second != 1 {
		t.Errorf("expected row ids 0, 1, got %d, %d", first, second)
	}
}

func TestStatsPeekDoesNotAdvanceWithoutCommit(t *testing.T) {
	backend := storage.NewFileBackend(t.TempDir())
	backend.EnsureDir("t")
	f, _ := backend.Open("t", statsFileName)
	defer f.Close()
	stats, err := LoadStats(f)
	if err != nil {
		t.Fatal(err)
	}

	if got := stats.Peek(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := stats.Peek(); got != 0 {
		t.Errorf("expected repeated Peek without Commit to stay at 0, got %d", got)
	}
}
