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

// Package maxp reads the glyph count from "maxp" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/maxp
package maxp

import (
	"seehuhn.de/go/pdfcore/sfnt/parser"
)

const (
	versionCFF      = 0x00005000
	versionTrueType = 0x00010000
)

// Decode returns the number of glyphs given in a "maxp" table.
// The result is in the range 1, ..., 65535.
func Decode(data []byte) (int, error) {
	p := parser.New("maxp", data)
	version, err := p.ReadUint32()
	if err != nil {
		return 0, err
	}
	if version != versionCFF && version != versionTrueType {
		return 0, &parser.NotSupportedError{
			SubSystem: "sfnt/maxp",
			Feature:   "maxp table version",
		}
	}

	numGlyphs, err := p.ReadUint16()
	if err != nil {
		return 0, err
	}
	if numGlyphs == 0 {
		return 0, &parser.InvalidFontError{
			SubSystem: "sfnt/maxp",
			Reason:    "numGlyphs is zero",
		}
	}
	return int(numGlyphs), nil
}
