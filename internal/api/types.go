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
// Package api defines the HTTP wire contract and the
// handlers that implement create_table/insert/query on top of the table
// and shard packages.
package api

import (
	"encoding/json"

	"github.com/iambriccardo/distribuito/internal/column"
)

// Column is a column descriptor as it appears on the wire.
type Column struct {
	Name string      `json:"name"`
	Type column.Type `json:"ty"`
}

// AggregateColumn additionally carries the original column's type, which
// is the type of a Sum aggregate's component and of an Avg aggregate's sum
// component. DeserializeQueryResponse does not read it: it takes these
// types from the receiving node's own parse of the same query.
type AggregateColumn struct {
	Name       string      `json:"name"`
	Type       column.Type `json:"ty"`
	SourceType column.Type `json:"source_ty"`
}

type CreateTableRequest struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

type InsertRequest struct {
	Insert []string `json:"insert"`
	Into   string   `json:"into"`
	Values [][]any  `json:"values"`
}

// Split partitions the insert into at most n chunks of ceil(len(values)/n)
// rows each (the last chunk may be shorter, and fewer than n chunks are
// returned when the rows run out first), preserving row order within and
// across chunks. Chunk 0 is always
// kept by the caller (the local shard); the rest are unicast to peers.
func (r InsertRequest) Split(n int) []InsertRequest {
	if n <= 0 {
		return []InsertRequest{r}
	}
	chunkSize := (len(r.Values) + n - 1) / n
	if chunkSize == 0 {
		return []InsertRequest{r}
	}

	var chunks []InsertRequest
	for start := 0; start < len(r.Values); start += chunkSize {
		end := start + chunkSize
		if end > len(r.Values) {
			end = len(r.Values)
		}
		chunks = append(chunks, InsertRequest{
			Insert: r.Insert,
			Into:   r.Into,
			Values: r.Values[start:end],
		})
	}
	if len(chunks) == 0 {
		chunks = []InsertRequest{{Insert: r.Insert, Into: r.Into, Values: nil}}
	}
	return chunks
}

type QueryRequest struct {
	Select  []string `json:"select"`
	From    string   `json:"from"`
	GroupBy []string `json:"group_by,omitempty"`
}

// Aggregate is one group's value for one requested aggregate column,
// carrying both its finalized value and the raw recoverable components
// needed to merge it with the same group on another shard.
type Aggregate struct {
	Value      any   `json:"value"`
	Components []any `json:"components,omitempty"`
}

// QueryResponse is a flattened rendering of the wire protocol's
// Empty/WithData/WithAggregatedData variants: exactly one of the field
// groups below is populated, matched by which constructor built it.
type QueryResponse struct {
	Errors []string `json:"errors,omitempty"`

	Columns []Column  `json:"columns,omitempty"`
	Data    [][]any   `json:"data,omitempty"`

	AggregateColumns []AggregateColumn `json:"aggregate_columns,omitempty"`
	Aggregates       [][]Aggregate     `json:"aggregates,omitempty"`
}

// MarshalJSON encodes the Empty variant (non-nil Errors) as just its
// "errors" array, which stays on the wire even when it has no entries;
// the other variants omit "errors".
func (r QueryResponse) MarshalJSON() ([]byte, error) {
	if r.Errors != nil {
		return json.Marshal(struct {
			Errors []string `json:"errors"`
		}{r.Errors})
	}
	type plain QueryResponse
	return json.Marshal(plain(r))
}

func EmptyResponse() QueryResponse {
	return QueryResponse{Errors: []string{}}
}

func isEmptyResponse(resp QueryResponse) bool {
	return resp.Columns == nil && resp.Data == nil
}
