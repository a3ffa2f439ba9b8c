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

package gtab

import (
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfcore/sfnt/opentype/coverage"
)

// Lookup is an entry in the lookup list of a GSUB table.
//
// Subtables are only decoded for single substitution lookups
// (LookupType 1).  For all other lookup types, SubTables has one empty
// entry for each subtable declared in the font.
type Lookup struct {
	LookupType uint16
	SubTables  []SubTable
}

// SubTable is a single substitution subtable.
type SubTable struct {
	Coverage coverage.Coverage
	Data     SubstData
}

// SubstData is one of NoSubst, DeltaSubst or ListSubst.
type SubstData interface {
	isSubstData()
}

// NoSubst is used for subtables which are empty or in an unknown format.
type NoSubst struct{}

func (NoSubst) isSubstData() {}

// DeltaSubst is the data of a format 1 single substitution subtable.
// The delta is added to the original glyph ID, modulo 65536.
type DeltaSubst int16

func (DeltaSubst) isSubstData() {}

// ListSubst is the data of a format 2 single substitution subtable.
// The substitute glyph is found at the coverage index of the original
// glyph.
type ListSubst []glyph.ID

func (ListSubst) isSubstData() {}

func emptySubTable() SubTable {
	return SubTable{Coverage: coverage.None{}, Data: NoSubst{}}
}

// Substitute applies the subtable to gid.
// The second return value indicates whether the glyph was covered.
func (st SubTable) Substitute(gid glyph.ID) (glyph.ID, bool) {
	if st.Coverage == nil {
		return 0, false
	}
	switch data := st.Data.(type) {
	case DeltaSubst:
		if st.Coverage.Index(gid) < 0 {
			return 0, false
		}
		return glyph.ID(int(gid) + int(data)), true
	case ListSubst:
		idx := st.Coverage.Index(gid)
		if idx < 0 || idx >= len(data) {
			return 0, false
		}
		return data[idx], true
	default:
		return 0, false
	}
}

func (st SubTable) String() string {
	switch data := st.Data.(type) {
	case DeltaSubst:
		return fmt.Sprintf("delta %+d on %d glyphs", int(data), len(st.Coverage.Glyphs()))
	case ListSubst:
		return fmt.Sprintf("list of %d glyphs", len(data))
	default:
		return "empty"
	}
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#lookup-list-table
func (d *decoder) readLookupList(pos int) []Lookup {
	offsets := d.readOffsets(pos)

	lookups := make([]Lookup, len(offsets))
	for i, offs := range offsets {
		lookups[i] = d.readLookup(pos + int(offs))
	}
	return lookups
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#lookup-table
func (d *decoder) readLookup(pos int) Lookup {
	if !d.seek(pos) {
		return Lookup{}
	}
	buf, err := d.c.ReadBytes(4)
	if err != nil {
		d.fail(err)
		return Lookup{}
	}
	// the lookupFlag in buf[2:4] is not used
	res := Lookup{
		LookupType: uint16(buf[0])<<8 | uint16(buf[1]),
	}

	offsets := d.readOffsets(pos + 4)
	res.SubTables = make([]SubTable, len(offsets))
	for i, offs := range offsets {
		if res.LookupType == 1 {
			res.SubTables[i] = d.readSingleSubst(pos + int(offs))
		} else {
			res.SubTables[i] = emptySubTable()
		}
	}
	return res
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#lookuptype-1-single-substitution-subtable
func (d *decoder) readSingleSubst(pos int) SubTable {
	res := emptySubTable()
	if !d.seek(pos) {
		return res
	}
	format, err := d.c.ReadUint16()
	if err != nil {
		d.fail(err)
		return res
	}
	if format != 1 && format != 2 {
		tracer().Debugf("GSUB: single substitution format %d ignored", format)
		return res
	}

	buf, err := d.c.ReadBytes(4)
	if err != nil {
		d.fail(err)
		return res
	}
	coverageOffset := uint16(buf[0])<<8 | uint16(buf[1])
	value := uint16(buf[2])<<8 | uint16(buf[3])

	switch format {
	case 1:
		res.Data = DeltaSubst(int16(value))
	case 2:
		// value is the glyphCount
		gids, err := d.c.ReadUint16s(int(value))
		if err != nil {
			d.fail(err)
		}
		list := make(ListSubst, len(gids))
		for i, gid := range gids {
			list[i] = glyph.ID(gid)
		}
		res.Data = list
	}

	if !d.seek(pos + int(coverageOffset)) {
		return res
	}
	cov, err := coverage.Read(d.c)
	if err != nil {
		d.fail(err)
	}
	res.Coverage = cov
	return res
}
