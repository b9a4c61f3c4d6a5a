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
package column

import (
	"fmt"
	"strings"
)

// Column identifies a single column in a table definition by name and type.
// Equality and hashing both consider name and type.
type Column struct {
	Name string
	Type Type
}

// New constructs a Column.
func New(name string, ty Type) Column {
	return Column{Name: name, Type: ty}
}

// FileName builds the on-disk column file name: <name>.<type>.dsto.
func (c Column) FileName() string {
	return fmt.Sprintf("%s.%s.dsto", c.Name, c.Type)
}

// Equal reports whether two columns have the same name and type.
func (c Column) Equal(other Column) bool {
	return c.Name == other.Name && c.Type == other.Type
}

// ValidName reports whether s is a legal column identifier:
// non-empty and matching [A-Za-z0-9_]+.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '_' {
			return false
		}
	}
	return true
}

// ParseFileName parses a column file name of the form name.type.dsto,
// returning ok=false for anything that doesn't match (including the
// reserved .index.dsto / .stats.dsto metadata files, whose leading dot
// produces an empty first part).
func ParseFileName(fileName string) (Column, bool) {
	parts := strings.Split(fileName, ".")
	if len(parts) != 3 {
		return Column{}, false
	}

	name, typ, ext := parts[0], parts[1], parts[2]
	if ext != "dsto" {
		return Column{}, false
	}
	if typ == "" {
		return Column{}, false
	}
	if !ValidName(name) {
		return Column{}, false
	}

	return New(name, ParseType(typ)), true
}
