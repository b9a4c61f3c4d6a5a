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
// Package shard implements the master-side dispatcher: the peer list,
// broadcast and round-robin unicast fan-out patterns, and the HTTP
// transport they run over.
package shard

import (
	"net/http"
	"sync"
)

// Shard is one peer node, reachable at Address ("host:port") over an
// HTTP client. NewShard gives the shard a client of its own; New shares
// one client across all the peers it builds.
type Shard struct {
	Address string
	client  *http.Client
}

func NewShard(address string) *Shard {
	return &Shard{Address: address, client: &http.Client{}}
}

// Shards is the dispatcher: the fixed peer list plus the round-robin
// counter, which is the single piece of cross-request mutable state it
// owns and therefore the only thing it guards with a lock.
type Shards struct {
	peers []*Shard

	mu      sync.Mutex
	counter uint64
}

// New builds a dispatcher over the given peer addresses. An empty list
// is valid: it means this node has no peers (e.g. it isn't a master).
func New(addresses []string) *Shards {
	peers := make([]*Shard, len(addresses))
	client := &http.Client{}
	for i, addr := range addresses {
		peers[i] = &Shard{Address: addr, client: client}
	}
	return &Shards{peers: peers}
}

func (s *Shards) Len() int { return len(s.peers) }

// next picks the next peer in round-robin order under the dispatcher's
// lock and advances the counter.
func (s *Shards) next() *Shard {
	s.mu.Lock()
	defer s.mu.Unlock()
	shard := s.peers[s.counter%uint64(len(s.peers))]
	s.counter++
	return shard
}
