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
package shard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type echoRequest struct {
	Value int `json:"value"`
}

func newEchoServer(t *testing.T, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req echoRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(req)
	}))
}

func addressOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestDoRoundTrip(t *testing.T) {
	srv := newEchoServer(t, false)
	defer srv.Close()

	shard := NewShard(addressOf(srv))
	op := NewOp("echo", echoRequest{Value: 42})
	out, err := Do[echoRequest, echoRequest](context.Background(), shard, op)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("expected 42, got %d", out.Value)
	}
}

func TestBroadcastFailsAllOnAnySinglePeerFailure(t *testing.T) {
	ok := newEchoServer(t, false)
	defer ok.Close()
	bad := newEchoServer(t, true)
	defer bad.Close()

	shards := New([]string{addressOf(ok), addressOf(bad)})
	op := NewOp("echo", echoRequest{Value: 1})

	_, err := Broadcast[echoRequest, echoRequest](context.Background(), shards, op)
	if err == nil {
		t.Fatal("expected broadcast to fail when one peer fails")
	}
}

func TestBroadcastCollectsAllResponses(t *testing.T) {
	a := newEchoServer(t, false)
	defer a.Close()
	b := newEchoServer(t, false)
	defer b.Close()

	shards := New([]string{addressOf(a), addressOf(b)})
	op := NewOp("echo", echoRequest{Value: 7})

	results, err := Broadcast[echoRequest, echoRequest](context.Background(), shards, op)
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if len(results) != 2 || results[0].Value != 7 || results[1].Value != 7 {
		t.Errorf("expected both responses echoed back, got %+v", results)
	}
}

func TestRRUnicastRotatesThroughPeers(t *testing.T) {
	a := newEchoServer(t, false)
	defer a.Close()
	b := newEchoServer(t, false)
	defer b.Close()

	shards := New([]string{addressOf(a), addressOf(b)})
	op := NewOp("echo", echoRequest{Value: 1})

	seen := map[uint64]bool{}
	for i := 0; i < 4; i++ {
		seen[shards.counter%uint64(len(shards.peers))] = true
		if _, err := RRUnicast[echoRequest, echoRequest](context.Background(), shards, op); err != nil {
			t.Fatalf("rr_unicast: %v", err)
		}
	}
	if len(seen) != 2 {
		t.Errorf("expected round robin to touch both peers, saw positions %v", seen)
	}
}
