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
	"github.com/iambriccardo/distribuito/internal/aggregate"
)

// ResultKind distinguishes a query result's shape, mirroring the wire
// protocol's Empty/Rows/AggregatedRows variants.
type ResultKind uint8

const (
	KindEmpty ResultKind = iota
	KindRows
	KindAggregated
)

// AggregatedRow is one group's key plus its finalized (or still-partial,
// pre-merge) aggregate components.
type AggregatedRow struct {
	GroupKey   aggregate.GroupKey
	GroupValue aggregate.GroupValue
}

// Result is the outcome of a single Table.Query call, or the merge of
// several shards' results for the same query.
type Result struct {
	Kind       ResultKind
	Rows       []Row
	Aggregated []AggregatedRow
}

// IsEmpty reports whether this result carries no data, regardless of
// Kind — callers serialize this as the wire protocol's Empty variant.
func (r Result) IsEmpty() bool {
	switch r.Kind {
	case KindRows:
		return len(r.Rows) == 0
	case KindAggregated:
		return len(r.Aggregated) == 0
	default:
		return true
	}
}

// MergeResults combines one query's results from every shard that
// answered it. Shards reporting KindEmpty contribute nothing; any two
// non-empty results must share the same Kind or the merge is a protocol
// error (ErrMergeVariantMismatch) — a shard cannot legitimately disagree
// with its peers about whether a query was row-shaped or aggregated.
func MergeResults(results []Result) (Result, error) {
	kind := KindEmpty
	for _, r := range results {
		if r.Kind == KindEmpty {
			continue
		}
		if kind == KindEmpty {
			kind = r.Kind
			continue
		}
		if kind != r.Kind {
			return Result{}, ErrMergeVariantMismatch
		}
	}

	switch kind {
	case KindRows:
		var all []Row
		for _, r := range results {
			all = append(all, r.Rows...)
		}
		return Result{Kind: KindRows, Rows: all}, nil
	case KindAggregated:
		return Result{Kind: KindAggregated, Aggregated: mergeAggregatedRows(results)}, nil
	default:
		return Result{Kind: KindEmpty}, nil
	}
}

func mergeAggregatedRows(results []Result) []AggregatedRow {
	type groupEntry struct {
		key   aggregate.GroupKey
		value aggregate.GroupValue
	}

	groups := make(map[string]*groupEntry)
	var order []string

	for _, r := range results {
		for _, ar := range r.Aggregated {
			key := ar.GroupKey.CacheKey()
			e, ok := groups[key]
			if !ok {
				value := ar.GroupValue
				e = &groupEntry{key: ar.GroupKey, value: value}
				groups[key] = e
				order = append(order, key)
				continue
			}
			e.value.Merge(ar.GroupValue)
		}
	}

	merged := make([]AggregatedRow, 0, len(order))
	for _, k := range order {
		e := groups[k]
		merged = append(merged, AggregatedRow{GroupKey: e.key, GroupValue: e.value})
	}
	return merged
}
