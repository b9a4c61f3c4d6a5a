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
	"fmt"
	"regexp"

	"github.com/iambriccardo/distribuito/internal/aggregate"
	"github.com/iambriccardo/distribuito/internal/column"
)

var aggregateTokenPattern = regexp.MustCompile(`^(\w+)\((\w+)\)$`)

// ParseSelectToken splits one select-list entry into either a bare column
// reference ("age") or an aggregate call ("sum(age)" -> fn="sum",
// col="age").
func ParseSelectToken(token string) (isAggregate bool, fn, colName string) {
	m := aggregateTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return false, "", token
	}
	return true, m[1], m[2]
}

// ParseSelect resolves a select list against a table's declared columns.
// Every referenced column (bare or inside an aggregate call) is validated
// to exist; aggregate calls additionally resolve their function name
// (downgrading unknown names to count, per aggregate.ParseFunc).
// Columns are only projected once even if referenced multiple times.
func ParseSelect(tableColumns []column.Column, tokens []string) ([]column.Column, []aggregate.Column, error) {
	var projected []column.Column
	var aggregates []aggregate.Column
	seen := make(map[string]bool)

	resolve := func(name string) (column.Column, error) {
		for _, c := range tableColumns {
			if c.Name == name {
				return c, nil
			}
		}
		return column.Column{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}

	project := func(c column.Column) {
		key := c.Name + "." + c.Type.String()
		if !seen[key] {
			seen[key] = true
			projected = append(projected, c)
		}
	}

	for _, token := range tokens {
		isAgg, fn, colName := ParseSelectToken(token)
		c, err := resolve(colName)
		if err != nil {
			return nil, nil, err
		}
		project(c)
		if isAgg {
			aggregates = append(aggregates, aggregate.Column{Func: aggregate.ParseFunc(fn), Col: c})
		}
	}
	return projected, aggregates, nil
}
