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

import "errors"

// Sentinel error kinds surfaced by the table engine.
// Handlers turn these into human-readable status strings; callers can
// still errors.Is/errors.As against them.
var (
	ErrUnknownColumn        = errors.New("unknown column")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrRowArity             = errors.New("row arity mismatch")
	ErrUnsupportedValue     = errors.New("unsupported value")
	ErrMergeVariantMismatch = errors.New("cannot merge results of different shapes")
	ErrTableNotFound        = errors.New("table not found")
)
