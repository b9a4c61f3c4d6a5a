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

import (
	"encoding/json"

	"github.com/iambriccardo/distribuito/internal/aggregate"
	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/table"
)

func columnToWire(c column.Column) Column {
	return Column{Name: c.Name, Type: c.Type}
}

func valueToWire(v column.Value) any {
	switch v.Type {
	case column.Integer:
		return v.I
	case column.Float:
		return v.F
	case column.String:
		return v.S
	default:
		return nil
	}
}

// componentType is the declared type of the k-th element of an
// aggregate's recoverable components array: Count's one component is
// always Integer, Sum's is the source column's type, and Avg's two
// components are (sum, count): the sum has the source column's type, the
// count is Integer.
func componentType(ac aggregate.Column, k int) column.Type {
	switch ac.Func {
	case aggregate.Count:
		return column.Integer
	case aggregate.Sum:
		return ac.Col.Type
	default: // Avg
		if k == 1 {
			return column.Integer
		}
		return ac.Col.Type
	}
}

func wireToValue(t column.Type, raw any) column.Value {
	if raw == nil {
		return column.NewNull()
	}
	switch v := raw.(type) {
	case json.Number:
		if t == column.Integer {
			i, err := v.Int64()
			if err != nil {
				return column.NewNull()
			}
			return column.NewInteger(i)
		}
		f, err := v.Float64()
		if err != nil {
			return column.NewNull()
		}
		return column.NewFloat(f)
	case int64:
		if t == column.Float {
			return column.NewFloat(float64(v))
		}
		return column.NewInteger(v)
	case float64:
		if t == column.Integer {
			return column.NewInteger(int64(v))
		}
		return column.NewFloat(v)
	case string:
		return column.NewString(v)
	default:
		return column.NewNull()
	}
}

// SerializeResult renders a table.Result in its wire shape. Truly empty
// results (no rows/groups either way) always serialize as the Empty
// variant, matching the original serialize_query_result behavior.
func SerializeResult(result table.Result) QueryResponse {
	if result.IsEmpty() {
		return EmptyResponse()
	}
	switch result.Kind {
	case table.KindRows:
		return serializeRows(result.Rows)
	case table.KindAggregated:
		return serializeAggregated(result.Aggregated)
	default:
		return EmptyResponse()
	}
}

func serializeRows(rows []table.Row) QueryResponse {
	cols := rows[0].Columns
	wireCols := make([]Column, len(cols))
	for i, c := range cols {
		wireCols[i] = columnToWire(c)
	}

	data := make([][]any, len(rows))
	for i, row := range rows {
		values := make([]any, len(row.Values))
		for j, v := range row.Values {
			values[j] = valueToWire(v)
		}
		data[i] = values
	}
	return QueryResponse{Columns: wireCols, Data: data}
}

func serializeAggregated(groups []table.AggregatedRow) QueryResponse {
	first := groups[0]

	groupCols := make([]Column, len(first.GroupKey.Parts))
	for i, p := range first.GroupKey.Parts {
		groupCols[i] = columnToWire(p.Col)
	}

	aggCols := make([]AggregateColumn, len(first.GroupValue.Aggregates))
	for i, ga := range first.GroupValue.Aggregates {
		aggCols[i] = AggregateColumn{
			Name:       ga.Col.WireName(),
			Type:       ga.Col.ResultType(),
			SourceType: ga.Col.Col.Type,
		}
	}

	data := make([][]any, len(groups))
	aggregates := make([][]Aggregate, len(groups))
	for i, g := range groups {
		values := make([]any, len(g.GroupKey.Parts))
		for j, p := range g.GroupKey.Parts {
			values[j] = valueToWire(p.Value)
		}
		data[i] = values

		row := make([]Aggregate, len(g.GroupValue.Aggregates))
		for j, ga := range g.GroupValue.Aggregates {
			value, components := ga.Components.Compute()
			wireComponents := make([]any, len(components))
			for k, c := range components {
				wireComponents[k] = valueToWire(c)
			}
			row[j] = Aggregate{Value: valueToWire(value), Components: wireComponents}
		}
		aggregates[i] = row
	}

	return QueryResponse{
		Columns:          groupCols,
		AggregateColumns: aggCols,
		Data:             data,
		Aggregates:       aggregates,
	}
}

// DeserializeQueryResponse rebuilds a table.Result from a peer's
// QueryResponse, using the SAME select parse the local node already
// computed for this query (projected/groupBy/aggregateColumns) so the
// peer's positional data/aggregates arrays can be decoded without
// re-parsing its columns listing.
func DeserializeQueryResponse(resp QueryResponse, projected, groupBy []column.Column, aggregateColumns []aggregate.Column) table.Result {
	if isEmptyResponse(resp) {
		return table.Result{Kind: table.KindEmpty}
	}

	if len(aggregateColumns) == 0 {
		rows := make([]table.Row, len(resp.Data))
		for i, values := range resp.Data {
			rowValues := make([]column.Value, len(projected))
			for j, raw := range values {
				rowValues[j] = wireToValue(projected[j].Type, raw)
			}
			rows[i] = table.Row{Columns: projected, Values: rowValues}
		}
		return table.Result{Kind: table.KindRows, Rows: rows}
	}

	groups := make([]table.AggregatedRow, len(resp.Data))
	for i, values := range resp.Data {
		parts := make([]aggregate.KeyPart, len(groupBy))
		for j, raw := range values {
			parts[j] = aggregate.KeyPart{Col: groupBy[j], Value: wireToValue(groupBy[j].Type, raw)}
		}

		gv := aggregate.GroupValue{Aggregates: make([]aggregate.GroupAggregate, len(aggregateColumns))}
		for j, ac := range aggregateColumns {
			wireComponents := resp.Aggregates[i][j].Components
			components := make([]column.Value, len(wireComponents))
			for k, raw := range wireComponents {
				components[k] = wireToValue(componentType(ac, k), raw)
			}
			gv.Aggregates[j] = aggregate.GroupAggregate{Col: ac, Components: aggregate.FromArray(ac, components)}
		}
		groups[i] = table.AggregatedRow{GroupKey: aggregate.GroupKey{Parts: parts}, GroupValue: gv}
	}
	return table.Result{Kind: table.KindAggregated, Aggregated: groups}
}
