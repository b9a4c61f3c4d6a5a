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

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		typ Type
		in  Value
		out Value
	}{
		{Integer, NewInteger(42), NewInteger(42)},
		{Integer, NewInteger(-7), NewInteger(-7)},
		{Float, NewFloat(3.5), NewFloat(3.5)},
		{String, NewString("alice"), NewString("alice")},
		{String, NewString(""), NewString("")},
	}

	for _, c := range cases {
		encoded := Encode(c.typ, c.in)
		if len(encoded) != c.typ.Size() {
			t.Fatalf("Encode(%v) produced %d bytes, want %d", c.in, len(encoded), c.typ.Size())
		}
		got := Decode(c.typ, encoded)
		if !got.Equal(c.out) {
			t.Errorf("round trip %v: got %v, want %v", c.in, got, c.out)
		}
	}
}

func TestStringTruncationAndPadding(t *testing.T) {
	long := make([]byte, StringSize+50)
	for i := range long {
		long[i] = 'a'
	}
	encoded := Encode(String, NewString(string(long)))
	if len(encoded) != StringSize {
		t.Fatalf("expected truncation to %d bytes, got %d", StringSize, len(encoded))
	}
	decoded := Decode(String, encoded)
	if len(decoded.S) != StringSize {
		t.Errorf("expected decoded length %d, got %d", StringSize, len(decoded.S))
	}

	short := Encode(String, NewString("bob"))
	decodedShort := Decode(String, short)
	if decodedShort.S != "bob" {
		t.Errorf("expected trailing NULs trimmed, got %q", decodedShort.S)
	}
}

func TestFloatEqualityByBitPattern(t *testing.T) {
	nan := NewFloat(nanBits())
	if !nan.Equal(nan) {
		t.Errorf("expected NaN == NaN when bits match")
	}
}

func nanBits() float64 {
	// any NaN works here, as long as both sides use the exact same bits
	var zero float64 = 0
	return zero / zero
}

func TestAddPromotion(t *testing.T) {
	if got := NewInteger(2).Add(NewInteger(3)); got.Type != Integer || got.I != 5 {
		t.Errorf("int+int: got %v", got)
	}
	if got := NewInteger(2).Add(NewFloat(1.5)); got.Type != Float || got.F != 3.5 {
		t.Errorf("int+float: got %v", got)
	}
	if got := NewFloat(1.5).Add(NewInteger(2)); got.Type != Float || got.F != 3.5 {
		t.Errorf("float+int: got %v", got)
	}
	if got := NewString("a").Add(NewInteger(1)); got.Type != Null {
		t.Errorf("string+int should be Null, got %v", got)
	}
}

func TestDivByZeroYieldsNull(t *testing.T) {
	if got := NewInteger(10).Div(NewInteger(0)); !got.IsNull() {
		t.Errorf("int div by zero should be Null, got %v", got)
	}
	if got := NewFloat(10).Div(NewFloat(0)); !got.IsNull() {
		t.Errorf("float div by zero should be Null, got %v", got)
	}
}

func TestVariantOrdering(t *testing.T) {
	if !NewInteger(100).Less(NewFloat(0)) {
		t.Errorf("Integer should order before Float regardless of value")
	}
	if !NewFloat(0).Less(NewString("")) {
		t.Errorf("Float should order before String")
	}
	if !NewString("z").Less(NewNull()) {
		t.Errorf("String should order before Null")
	}
}

func TestParseFileName(t *testing.T) {
	c, ok := ParseFileName("age.integer.dsto")
	if !ok || c.Name != "age" || c.Type != Integer {
		t.Fatalf("got %v, %v", c, ok)
	}

	if _, ok := ParseFileName(".index.dsto"); ok {
		t.Errorf(".index.dsto should not parse as a column")
	}
	if _, ok := ParseFileName(".stats.dsto"); ok {
		t.Errorf(".stats.dsto should not parse as a column")
	}
	if _, ok := ParseFileName("bad.dsto"); ok {
		t.Errorf("two-part name should not parse")
	}
	if _, ok := ParseFileName("name.integer.txt"); ok {
		t.Errorf("wrong extension should not parse")
	}
}
