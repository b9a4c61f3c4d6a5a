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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// ShardOp is a typed HTTP POST operation: its request body and the path
// it is sent to. The response type is supplied separately by callers
// (via Do/Broadcast/RRUnicast's O type parameter) so this interface
// doesn't need to know it.
type ShardOp[I any] interface {
	Input() I
	Path() string
}

type simpleOp[I any] struct {
	path string
	body I
}

func (o simpleOp[I]) Input() I    { return o.body }
func (o simpleOp[I]) Path() string { return o.path }

// NewOp builds a ShardOp posting body to path, e.g.
// NewOp("create_table", req).
func NewOp[I any](path string, body I) ShardOp[I] {
	return simpleOp[I]{path: path, body: body}
}

// Do sends op to shard and decodes its JSON response as O.
func Do[I any, O any](ctx context.Context, shard *Shard, op ShardOp[I]) (O, error) {
	var out O

	payload, err := json.Marshal(op.Input())
	if err != nil {
		return out, fmt.Errorf("%w: %s: encode request: %v", ErrPeer, shard.Address, err)
	}

	url := fmt.Sprintf("http://%s/%s", shard.Address, op.Path())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("%w: %s: build request: %v", ErrPeer, shard.Address, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := shard.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrPeer, shard.Address, err)
	}
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber() // preserve integer-vs-real literal distinction in any untyped fields
	if err := decoder.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: %s: decode response: %v", ErrPeer, shard.Address, err)
	}
	return out, nil
}

// Broadcast fans op out to every peer concurrently and fails the whole
// call if any single peer fails.
func Broadcast[I any, O any](ctx context.Context, shards *Shards, op ShardOp[I]) ([]O, error) {
	results := make([]O, len(shards.peers))

	g, ctx := errgroup.WithContext(ctx)
	for i, peer := range shards.peers {
		g.Go(func() error {
			out, err := Do[I, O](ctx, peer, op)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RRUnicast sends op to the next peer in round-robin order.
func RRUnicast[I any, O any](ctx context.Context, shards *Shards, op ShardOp[I]) (O, error) {
	peer := shards.next()
	return Do[I, O](ctx, peer, op)
}
