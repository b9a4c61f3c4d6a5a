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
	"testing"

	"github.com/iambriccardo/distribuito/internal/aggregate"
	"github.com/iambriccardo/distribuito/internal/column"
	"github.com/iambriccardo/distribuito/internal/table"
)

func TestSerializeRowsRoundTrip(t *testing.T) {
	age := column.New("age", column.Integer)
	rows := []table.Row{
		{Columns: []column.Column{age}, Values: []column.Value{column.NewInteger(30)}},
	}
	resp := SerializeResult(table.Result{Kind: table.KindRows, Rows: rows})
	if len(resp.Columns) != 1 || resp.Columns[0].Name != "age" {
		t.Fatalf("unexpected columns: %+v", resp.Columns)
	}
	if resp.Data[0][0] != int64(30) {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
}

func TestSerializeEmptyResultIsEmptyVariant(t *testing.T) {
	resp := SerializeResult(table.Result{Kind: table.KindRows, Rows: nil})
	if resp.Errors == nil || resp.Columns != nil {
		t.Errorf("expected Empty variant, got %+v", resp)
	}
}

func TestDeserializeAggregatedRoundTrip(t *testing.T) {
	region := column.New("region", column.String)
	amount := column.New("amount", column.Integer)
	ac := aggregate.Column{Func: aggregate.Sum, Col: amount}

	groups := []table.AggregatedRow{
		{
			GroupKey: aggregate.GroupKey{Parts: []aggregate.KeyPart{{Col: region, Value: column.NewString("east")}}},
			GroupValue: aggregate.GroupValue{Aggregates: []aggregate.GroupAggregate{
				{Col: ac, Components: func() aggregate.Components {
					c := aggregate.New(ac)
					c.Add(column.NewInteger(10))
					c.Add(column.NewInteger(20))
					return c
				}()},
			}},
		},
	}

	resp := SerializeResult(table.Result{Kind: table.KindAggregated, Aggregated: groups})
	result := DeserializeQueryResponse(resp, nil, []column.Column{region}, []aggregate.Column{ac})
	if result.Kind != table.KindAggregated || len(result.Aggregated) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	sum, _ := result.Aggregated[0].GroupValue.Aggregates[0].Components.Compute()
	if sum.I != 30 {
		t.Errorf("expected sum 30 after round-trip, got %v", sum)
	}
}
