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
// Package column implements the fixed-width column type and value model
// shared by the storage engine and the query executor.
package column

import (
	"encoding/json"
	"fmt"
)

// Type is the on-disk column type. Every value of a column occupies a
// fixed number of bytes determined solely by its Type.
type Type uint8

const (
	Integer Type = iota
	Float
	String
	// Null is not a storable column type (no column is ever declared Null),
	// but it is a valid ColumnValue variant, so it needs a place in the
	// type ordering used for comparisons.
	Null
)

const (
	IntegerSize = 8
	FloatSize   = 8
	StringSize  = 256
)

// Size returns the fixed on-disk width in bytes for the type.
func (t Type) Size() int {
	switch t {
	case Integer:
		return IntegerSize
	case Float:
		return FloatSize
	case String:
		return StringSize
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// ParseType parses the on-disk type token used in column filenames
// (<name>.<type>.dsto). Unknown tokens default to Integer, matching the
// prototype's lenient `From<&str> for ColumnType` conversion.
func ParseType(s string) Type {
	switch s {
	case "integer":
		return Integer
	case "float":
		return Float
	case "string":
		return String
	default:
		return Integer
	}
}

// MarshalJSON renders the wire-visible lowercase name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the lowercase wire names only.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "integer":
		*t = Integer
	case "float":
		*t = Float
	case "string":
		*t = String
	case "null":
		*t = Null
	default:
		return fmt.Errorf("unknown column type: %q", s)
	}
	return nil
}
