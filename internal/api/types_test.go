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
package api

import "testing"

func TestInsertRequestSplitChunkSizes(t *testing.T) {
	req := InsertRequest{
		Insert: []string{"v"},
		Into:   "t",
		Values: [][]any{{1}, {2}, {3}, {4}, {5}, {6}},
	}

	chunks := req.Split(3)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Values) != 2 {
			t.Errorf("expected chunks of 2, got %d", len(c.Values))
		}
	}
}

func TestInsertRequestSplitUnevenSizes(t *testing.T) {
	req := InsertRequest{Values: [][]any{{1}, {2}, {3}}}
	chunks := req.Split(2)
	total := 0
	for _, c := range chunks {
		total += len(c.Values)
	}
	if total != 3 {
		t.Errorf("expected all 3 rows preserved across chunks, got %d", total)
	}
}
