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
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Value is a tagged union over the four on-disk value variants. Only one
// of the fields is meaningful at a time, selected by Type.
type Value struct {
	Type Type
	I    int64
	F    float64
	S    string
}

func NewInteger(i int64) Value  { return Value{Type: Integer, I: i} }
func NewFloat(f float64) Value  { return Value{Type: Float, F: f} }
func NewString(s string) Value  { return Value{Type: String, S: s} }
func NewNull() Value            { return Value{Type: Null} }
func (v Value) IsNull() bool    { return v.Type == Null }

// Default returns the zero value for a declared column type: 0 for
// Integer, 0.0 for Float, "" for String.
func Default(t Type) Value {
	switch t {
	case Integer:
		return NewInteger(0)
	case Float:
		return NewFloat(0)
	case String:
		return NewString("")
	default:
		return NewNull()
	}
}

// Equal implements the componentwise equality rule from the data model:
// same variant compares by value, with Float comparing by bit pattern (so
// NaN == NaN when the bits match).
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case Integer:
		return v.I == other.I
	case Float:
		return math.Float64bits(v.F) == math.Float64bits(other.F)
	case String:
		return v.S == other.S
	default: // Null
		return true
	}
}

// variantOrder fixes the ordering between different variants:
// Integer < Float < String < Null.
func variantOrder(t Type) int {
	switch t {
	case Integer:
		return 0
	case Float:
		return 1
	case String:
		return 2
	default:
		return 3
	}
}

// Less implements the ordering rule: natural order within a variant, the
// fixed variant order across variants.
func (v Value) Less(other Value) bool {
	if v.Type != other.Type {
		return variantOrder(v.Type) < variantOrder(other.Type)
	}
	switch v.Type {
	case Integer:
		return v.I < other.I
	case Float:
		return v.F < other.F
	case String:
		return v.S < other.S
	default:
		return false
	}
}

// Hash produces a stable hash of the value, used to build GroupKey buckets.
// Float hashes its bit pattern; Null always hashes to 0.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	switch v.Type {
	case Integer:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.I))
		h.Write(buf[:])
	case Float:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.F))
		h.Write(buf[:])
	case String:
		h.Write([]byte(v.S))
	default:
		return 0
	}
	return h.Sum64()
}

// Add implements the addition promotion rules: Integer+Integer->Integer,
// Float+Float->Float, Integer+Float or Float+Integer->Float (int cast),
// any other pairing (including anything involving String or Null) -> Null.
func (v Value) Add(other Value) Value {
	switch {
	case v.Type == Integer && other.Type == Integer:
		return NewInteger(v.I + other.I)
	case v.Type == Float && other.Type == Float:
		return NewFloat(v.F + other.F)
	case v.Type == Integer && other.Type == Float:
		return NewFloat(float64(v.I) + other.F)
	case v.Type == Float && other.Type == Integer:
		return NewFloat(v.F + float64(other.I))
	default:
		return NewNull()
	}
}

// Div implements the division promotion rules (same promotion as Add),
// with division by zero yielding Null rather than an error.
func (v Value) Div(other Value) Value {
	switch {
	case v.Type == Integer && other.Type == Integer:
		if other.I == 0 {
			return NewNull()
		}
		return NewInteger(v.I / other.I)
	case v.Type == Float && other.Type == Float:
		if other.F == 0 {
			return NewNull()
		}
		return NewFloat(v.F / other.F)
	case v.Type == Integer && other.Type == Float:
		if other.F == 0 {
			return NewNull()
		}
		return NewFloat(float64(v.I) / other.F)
	case v.Type == Float && other.Type == Integer:
		if other.I == 0 {
			return NewNull()
		}
		return NewFloat(v.F / float64(other.I))
	default:
		return NewNull()
	}
}

// Encode writes the fixed-width on-disk payload for the value into a
// buffer of exactly typ.Size() bytes. The caller's declared column type
// governs the width, not v.Type (v is expected to already match typ,
// except for Null which encodes as the type's default).
func Encode(typ Type, v Value) []byte {
	buf := make([]byte, typ.Size())
	switch typ {
	case Integer:
		i := v.I
		if v.Type == Null {
			i = 0
		}
		binary.LittleEndian.PutUint64(buf, uint64(i))
	case Float:
		f := v.F
		if v.Type == Null {
			f = 0
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	case String:
		s := v.S
		if len(s) > StringSize {
			s = s[:StringSize]
		}
		copy(buf, s)
		// remaining bytes are already zero (NUL padding)
	}
	return buf
}

// Decode parses a fixed-width on-disk payload (of exactly typ.Size()
// bytes) back into a Value. Strings are trimmed at the first NUL byte.
func Decode(typ Type, data []byte) Value {
	switch typ {
	case Integer:
		return NewInteger(int64(binary.LittleEndian.Uint64(data)))
	case Float:
		return NewFloat(math.Float64frombits(binary.LittleEndian.Uint64(data)))
	case String:
		if idx := bytes.IndexByte(data, 0); idx >= 0 {
			data = data[:idx]
		}
		return NewString(string(data))
	default:
		return NewNull()
	}
}
