// seehuhn.de/go/pdfcore - PDF object, stream and font table support
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package gtab reads the OpenType "GSUB" table and resolves vertical
// writing glyph substitutions.
//
// Only single substitution lookups (lookup type 1) are decoded in full.
// Lookups of other types are recorded with their type and number of
// subtables, but they never produce a substitution.
//
// Malformed or truncated tables never cause a failure.  The affected
// structures are left empty, and glyphs which depend on them are simply
// not substituted.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub
package gtab

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'pdfcore.gsub'
func tracer() tracing.Trace {
	return tracing.Select("pdfcore.gsub")
}
