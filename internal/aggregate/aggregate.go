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
// Package aggregate implements the mergeable aggregation algebra used by
// the query executor: Count/Sum/Avg as partial components that can be
// folded row-by-row on a single node and then combined exactly across
// shards.
package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iambriccardo/distribuito/internal/column"
)

func mathFloatBits(f float64) uint64 {
	return math.Float64bits(f)
}

// Func is one of the supported aggregate functions.
type Func uint8

const (
	Count Func = iota
	Sum
	Avg
)

// ParseFunc is case-insensitive and silently downgrades anything it
// doesn't recognize to Count. This is a known sharp edge inherited
// directly from the original design and preserved for fidelity rather
// than promoted to a parse error.
func ParseFunc(name string) Func {
	switch strings.ToLower(name) {
	case "sum":
		return Sum
	case "avg":
		return Avg
	default:
		return Count
	}
}

func (f Func) String() string {
	switch f {
	case Sum:
		return "sum"
	case Avg:
		return "avg"
	default:
		return "count"
	}
}

// Column pairs an aggregate function with the column it operates over,
// e.g. sum(age).
type Column struct {
	Func Func
	Col  column.Column
}

func (c Column) Equal(other Column) bool {
	return c.Func == other.Func && c.Col.Equal(other.Col)
}

// WireName renders the "FN(col)" label used on the wire.
func (c Column) WireName() string {
	return c.Func.String() + "(" + c.Col.Name + ")"
}

// ResultType is the column type an aggregate finalizes to: Count is
// always Integer; Sum and Avg keep the source column's type (Avg divides
// a sum of that type by an Integer count, so an Integer average
// truncates).
func (c Column) ResultType() column.Type {
	switch c.Func {
	case Count:
		return column.Integer
	default:
		return c.Col.Type
	}
}

// Components holds the partial, mergeable state of one aggregate over
// one group. Only the fields relevant to Func are meaningful:
//   - Count: Acc holds the running count.
//   - Sum:   Acc holds the running sum.
//   - Avg:   Acc holds the running sum, Count2 the running count.
type Components struct {
	Func   Func
	Acc    column.Value
	Count2 column.Value
}

// New initializes empty components for a fresh group.
func New(ac Column) Components {
	switch ac.Func {
	case Count:
		return Components{Func: Count, Acc: column.NewInteger(0)}
	case Sum:
		return Components{Func: Sum, Acc: column.Default(ac.Col.Type)}
	default: // Avg
		return Components{Func: Avg, Acc: column.Default(ac.Col.Type), Count2: column.NewInteger(0)}
	}
}

// FromArray rehydrates components from their recoverable state, as
// shipped over the wire in a peer's partial-aggregate response: Count and
// Sum take their one element, Avg takes sum then count.
func FromArray(ac Column, parts []column.Value) Components {
	switch ac.Func {
	case Count:
		return Components{Func: Count, Acc: parts[0]}
	case Sum:
		return Components{Func: Sum, Acc: parts[0]}
	default: // Avg
		return Components{Func: Avg, Acc: parts[0], Count2: parts[1]}
	}
}

// Add folds a single row's value into the running components (the
// per-row ingestion fold, distinct from Merge's cross-shard combine).
func (c *Components) Add(value column.Value) {
	switch c.Func {
	case Count:
		c.Acc = c.Acc.Add(column.NewInteger(1))
	case Sum:
		c.Acc = c.Acc.Add(value)
	default: // Avg
		c.Acc = c.Acc.Add(value)
		c.Count2 = c.Count2.Add(column.NewInteger(1))
	}
}

// Merge combines two partial aggregates of the same group computed on
// different shards. This is always an additive combine of the stored
// components — for Count this means summing two running counts, NOT
// incrementing by one, which is why it is a distinct operation from Add.
func (c *Components) Merge(other Components) {
	switch c.Func {
	case Count, Sum:
		c.Acc = c.Acc.Add(other.Acc)
	default: // Avg
		c.Acc = c.Acc.Add(other.Acc)
		c.Count2 = c.Count2.Add(other.Count2)
	}
}

// Compute finalizes the aggregate into its (value, recoverable components)
// pair: Count -> (count, [count]); Sum -> (sum, [sum]);
// Avg -> (sum/count, [sum, count]). Dividing by a zero count yields Null,
// matching the value model's division-by-zero rule.
func (c Components) Compute() (column.Value, []column.Value) {
	switch c.Func {
	case Count:
		return c.Acc, []column.Value{c.Acc}
	case Sum:
		return c.Acc, []column.Value{c.Acc}
	default: // Avg
		return c.Acc.Div(c.Count2), []column.Value{c.Acc, c.Count2}
	}
}

// KeyPart is one (column, value) pair contributing to a GroupKey.
type KeyPart struct {
	Col   column.Column
	Value column.Value
}

// GroupKey is the multiset of (column, value) pairs that defines a group,
// normalized by sorting on column name so that equal groups produce
// identical cache keys regardless of lookup order.
type GroupKey struct {
	Parts []KeyPart
}

// NewGroupKey builds a GroupKey from the group-by columns and a value
// lookup function (typically Row.Value). An empty groupBy produces the
// single global group.
func NewGroupKey(groupBy []column.Column, lookup func(column.Column) (column.Value, bool)) GroupKey {
	parts := make([]KeyPart, 0, len(groupBy))
	for _, c := range groupBy {
		v, ok := lookup(c)
		if !ok {
			v = column.NewNull()
		}
		parts = append(parts, KeyPart{Col: c, Value: v})
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Col.Name != parts[j].Col.Name {
			return parts[i].Col.Name < parts[j].Col.Name
		}
		return parts[i].Col.Type < parts[j].Col.Type
	})
	return GroupKey{Parts: parts}
}

// CacheKey produces a string suitable as a Go map key, deterministic for
// equal GroupKeys.
func (k GroupKey) CacheKey() string {
	var b strings.Builder
	for _, p := range k.Parts {
		b.WriteString(p.Col.Name)
		b.WriteByte('\x1f')
		b.WriteString(p.Col.Type.String())
		b.WriteByte('\x1f')
		b.WriteString(valueCacheToken(p.Value))
		b.WriteByte('\x1e')
	}
	return b.String()
}

func valueCacheToken(v column.Value) string {
	switch v.Type {
	case column.Integer:
		return "i:" + strconv.FormatInt(v.I, 10)
	case column.Float:
		return "f:" + strconv.FormatUint(mathFloatBits(v.F), 16)
	case column.String:
		return "s:" + v.S
	default:
		return "n:"
	}
}

// GroupValue holds the partial aggregates being accumulated for one
// group: one Components per requested aggregate column.
type GroupValue struct {
	Aggregates []GroupAggregate
}

// GroupAggregate pairs an aggregate column descriptor with its running
// components, preserving input order for deterministic wire output.
type GroupAggregate struct {
	Col        Column
	Components Components
}

// NewGroupValue initializes empty components for each requested
// aggregate column.
func NewGroupValue(aggregateColumns []Column) GroupValue {
	aggs := make([]GroupAggregate, len(aggregateColumns))
	for i, ac := range aggregateColumns {
		aggs[i] = GroupAggregate{Col: ac, Components: New(ac)}
	}
	return GroupValue{Aggregates: aggs}
}

// Add folds one row into every aggregate in this group.
func (g *GroupValue) Add(lookup func(column.Column) (column.Value, bool)) {
	for i := range g.Aggregates {
		v, ok := lookup(g.Aggregates[i].Col.Col)
		if !ok {
			v = column.NewNull()
		}
		g.Aggregates[i].Components.Add(v)
	}
}

// Merge combines another shard's partial GroupValue for the same group
// into this one, matching aggregate columns by equality.
func (g *GroupValue) Merge(other GroupValue) {
	for i := range g.Aggregates {
		for _, oa := range other.Aggregates {
			if g.Aggregates[i].Col.Equal(oa.Col) {
				g.Aggregates[i].Components.Merge(oa.Components)
				break
			}
		}
	}
}
