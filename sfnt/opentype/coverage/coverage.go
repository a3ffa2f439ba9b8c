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

// Package coverage reads OpenType "Coverage" tables.
//
// A coverage table maps the glyphs it covers to consecutive coverage
// indices, which are then used to look up per-glyph data in the
// enclosing subtable.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#coverage-table
package coverage

import (
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfcore/sfnt/parser"
)

// Coverage is one of None, GlyphArray or Ranges.
type Coverage interface {
	// Index returns the coverage index of gid, or -1 if the glyph is
	// not covered.
	Index(gid glyph.ID) int

	// Glyphs returns the covered glyphs, in order of coverage index.
	Glyphs() []glyph.ID

	isCoverage()
}

// None is used for coverage tables in an unknown format.
// It does not match any glyph.
type None struct{}

// Index implements the Coverage interface.
func (None) Index(glyph.ID) int { return -1 }

// Glyphs implements the Coverage interface.
func (None) Glyphs() []glyph.ID { return nil }

func (None) isCoverage() {}

// GlyphArray is a coverage table in format 1.
// The coverage index of a glyph is its position in the array.
type GlyphArray []glyph.ID

// Index implements the Coverage interface.
// Fonts are not required to sort the array, so a linear scan is used.
func (a GlyphArray) Index(gid glyph.ID) int {
	for i, g := range a {
		if g == gid {
			return i
		}
	}
	return -1
}

// Glyphs implements the Coverage interface.
func (a GlyphArray) Glyphs() []glyph.ID {
	return a
}

func (GlyphArray) isCoverage() {}

// RangeRecord describes a range of consecutive glyph IDs
// in a format 2 coverage table.
type RangeRecord struct {
	Start              glyph.ID
	End                glyph.ID
	StartCoverageIndex uint16
}

func (r RangeRecord) String() string {
	return fmt.Sprintf("%d-%d@%d", r.Start, r.End, r.StartCoverageIndex)
}

// Ranges is a coverage table in format 2.
type Ranges []RangeRecord

// Index implements the Coverage interface.
// For a glyph inside the range [Start, End], the coverage index is
// StartCoverageIndex + (gid - Start).
func (rr Ranges) Index(gid glyph.ID) int {
	for _, r := range rr {
		if gid >= r.Start && gid <= r.End {
			return int(r.StartCoverageIndex) + int(gid-r.Start)
		}
	}
	return -1
}

// Glyphs implements the Coverage interface.
// Ranges with an inverted start and end are skipped.
func (rr Ranges) Glyphs() []glyph.ID {
	var res []glyph.ID
	for _, r := range rr {
		if r.End < r.Start {
			continue
		}
		for gid := int(r.Start); gid <= int(r.End); gid++ {
			res = append(res, glyph.ID(gid))
		}
	}
	return res
}

func (Ranges) isCoverage() {}

// Read decodes the coverage table which starts at the current position
// of c.
//
// Tables in an unknown format give None and no error.  If the data is
// truncated, the entries read so far are returned together with the error.
func Read(c *parser.Cursor) (Coverage, error) {
	format, err := c.ReadUint16()
	if err != nil {
		return None{}, err
	}

	switch format {
	case 1: // Coverage Format 1
		glyphs, err := c.ReadUint16Slice()
		res := make(GlyphArray, len(glyphs))
		for i, g := range glyphs {
			res[i] = glyph.ID(g)
		}
		return res, err

	case 2: // Coverage Format 2
		rangeCount, err := c.ReadUint16()
		if err != nil {
			return Ranges{}, err
		}
		res := make(Ranges, 0, min(int(rangeCount), c.Remaining()/6))
		for i := 0; i < int(rangeCount); i++ {
			buf, err := c.ReadBytes(6)
			if err != nil {
				return res, err
			}
			res = append(res, RangeRecord{
				Start:              glyph.ID(buf[0])<<8 | glyph.ID(buf[1]),
				End:                glyph.ID(buf[2])<<8 | glyph.ID(buf[3]),
				StartCoverageIndex: uint16(buf[4])<<8 | uint16(buf[5]),
			})
		}
		return res, nil

	default:
		return None{}, nil
	}
}
