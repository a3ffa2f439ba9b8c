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
	"seehuhn.de/go/pdfcore/sfnt/opentype/coverage"
)

// The functions in this file build binary GSUB tables for the tests.
// Offsets are not checked for overflow, so only small tables can be
// encoded.

func put16(buf []byte, pos int, val uint16) {
	buf[pos] = byte(val >> 8)
	buf[pos+1] = byte(val)
}

func put32(buf []byte, pos int, val uint32) {
	put16(buf, pos, uint16(val>>16))
	put16(buf, pos+2, uint16(val))
}

// concat appends the children to a header of the given size.  For each
// child, setOffset is called with the child number and its offset
// relative to the start of the header.
func concat(header []byte, children [][]byte, setOffset func(i int, offs uint16)) []byte {
	pos := len(header)
	for i, child := range children {
		setOffset(i, uint16(pos))
		pos += len(child)
	}
	res := make([]byte, 0, pos)
	res = append(res, header...)
	for _, child := range children {
		res = append(res, child...)
	}
	return res
}

func encodeGsub(scripts []ScriptRecord, features []FeatureRecord, lookups []Lookup) []byte {
	header := make([]byte, 10)
	put32(header, 0, 0x00010000)
	parts := [][]byte{
		encodeScriptList(scripts),
		encodeFeatureList(features),
		encodeLookupList(lookups),
	}
	return concat(header, parts, func(i int, offs uint16) {
		put16(header, 4+2*i, offs)
	})
}

func encodeScriptList(scripts []ScriptRecord) []byte {
	header := make([]byte, 2+6*len(scripts))
	put16(header, 0, uint16(len(scripts)))
	var children [][]byte
	for i, s := range scripts {
		copy(header[2+6*i:], "latn")
		children = append(children, encodeScript(s))
	}
	return concat(header, children, func(i int, offs uint16) {
		put16(header, 6+6*i, offs)
	})
}

func encodeScript(s ScriptRecord) []byte {
	header := make([]byte, 4+6*len(s.LangSys))
	put16(header, 2, uint16(len(s.LangSys)))
	var children [][]byte
	for i, indices := range s.LangSys {
		copy(header[4+6*i:], "DEU ")
		child := make([]byte, 6+2*len(indices))
		put16(child, 2, 0xFFFF)
		put16(child, 4, uint16(len(indices)))
		for j, idx := range indices {
			put16(child, 6+2*j, idx)
		}
		children = append(children, child)
	}
	return concat(header, children, func(i int, offs uint16) {
		put16(header, 8+6*i, offs)
	})
}

func encodeFeatureList(features []FeatureRecord) []byte {
	header := make([]byte, 2+6*len(features))
	put16(header, 0, uint16(len(features)))
	var children [][]byte
	for i, f := range features {
		put32(header, 2+6*i, uint32(f.Tag))
		child := make([]byte, 4+2*len(f.LookupListIndices))
		put16(child, 2, uint16(len(f.LookupListIndices)))
		for j, idx := range f.LookupListIndices {
			put16(child, 4+2*j, idx)
		}
		children = append(children, child)
	}
	return concat(header, children, func(i int, offs uint16) {
		put16(header, 6+6*i, offs)
	})
}

func encodeLookupList(lookups []Lookup) []byte {
	header := make([]byte, 2+2*len(lookups))
	put16(header, 0, uint16(len(lookups)))
	var children [][]byte
	for _, l := range lookups {
		children = append(children, encodeLookup(l))
	}
	return concat(header, children, func(i int, offs uint16) {
		put16(header, 2+2*i, offs)
	})
}

func encodeLookup(l Lookup) []byte {
	header := make([]byte, 6+2*len(l.SubTables))
	put16(header, 0, l.LookupType)
	put16(header, 4, uint16(len(l.SubTables)))
	var children [][]byte
	for _, st := range l.SubTables {
		children = append(children, encodeSingleSubst(st))
	}
	return concat(header, children, func(i int, offs uint16) {
		put16(header, 6+2*i, offs)
	})
}

func encodeSingleSubst(st SubTable) []byte {
	var header []byte
	switch data := st.Data.(type) {
	case DeltaSubst:
		header = make([]byte, 6)
		put16(header, 0, 1)
		put16(header, 4, uint16(data))
	case ListSubst:
		header = make([]byte, 6+2*len(data))
		put16(header, 0, 2)
		put16(header, 4, uint16(len(data)))
		for i, gid := range data {
			put16(header, 6+2*i, uint16(gid))
		}
	default:
		// an unknown format
		return []byte{0, 3, 0, 0}
	}
	cov := st.Coverage
	if cov == nil {
		cov = coverage.None{}
	}
	return concat(header, [][]byte{encodeCoverage(cov)}, func(_ int, offs uint16) {
		put16(header, 2, offs)
	})
}

func encodeCoverage(cov coverage.Coverage) []byte {
	switch cov := cov.(type) {
	case coverage.GlyphArray:
		buf := make([]byte, 4+2*len(cov))
		put16(buf, 0, 1)
		put16(buf, 2, uint16(len(cov)))
		for i, g := range cov {
			put16(buf, 4+2*i, uint16(g))
		}
		return buf
	case coverage.Ranges:
		buf := make([]byte, 4+6*len(cov))
		put16(buf, 0, 2)
		put16(buf, 2, uint16(len(cov)))
		for i, r := range cov {
			put16(buf, 4+6*i, uint16(r.Start))
			put16(buf, 6+6*i, uint16(r.End))
			put16(buf, 8+6*i, r.StartCoverageIndex)
		}
		return buf
	default:
		// an empty glyph array
		return []byte{0, 1, 0, 0}
	}
}
