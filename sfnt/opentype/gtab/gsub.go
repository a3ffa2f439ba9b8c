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
	"errors"
	"fmt"
	"slices"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfcore/sfnt/parser"
)

// ErrVersion is reported by Decode for tables with a version other
// than 1.0.
var ErrVersion = errors.New("unsupported GSUB version")

// Gsub holds the decoded contents of a GSUB table.
// A Gsub is immutable and can be used concurrently.
type Gsub struct {
	scripts  []ScriptRecord
	features []FeatureRecord
	lookups  []Lookup

	// featureSet lists the indices of all vertical writing features,
	// in increasing order.
	featureSet []uint16
}

// Read decodes a GSUB table.  Problems with the table data are written
// to the trace at debug level.  If the table cannot be decoded at all,
// the result is an empty table.
func Read(data []byte) *Gsub {
	g, err := Decode(data)
	if err != nil {
		tracer().Debugf("%v", err)
	}
	return g
}

// Decode decodes a GSUB table.
//
// The returned table is never nil.  All problems found while decoding
// are combined into the returned error; the parts of the table not
// affected by these problems are still usable.
func Decode(data []byte) (*Gsub, error) {
	g := &Gsub{}
	d := &decoder{c: parser.New("GSUB", data)}

	buf, err := d.c.ReadBytes(10)
	if err != nil {
		return g, err
	}
	version := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	if version != 0x00010000 {
		return g, fmt.Errorf("%w 0x%08x", ErrVersion, version)
	}
	scriptListOffset := uint16(buf[4])<<8 | uint16(buf[5])
	featureListOffset := uint16(buf[6])<<8 | uint16(buf[7])
	lookupListOffset := uint16(buf[8])<<8 | uint16(buf[9])

	g.scripts = d.readScriptList(int(scriptListOffset))
	g.features = d.readFeatureList(int(featureListOffset))
	g.lookups = d.readLookupList(int(lookupListOffset))
	g.featureSet = g.verticalFeatures()

	return g, errors.Join(d.errs...)
}

// verticalFeatures collects the indices of all features with a vertical
// writing tag which are referenced by some language system.  If there
// are none, all vertical writing features in the feature list are used.
func (g *Gsub) verticalFeatures() []uint16 {
	seen := make(map[uint16]bool)
	for _, script := range g.scripts {
		for _, langSys := range script.LangSys {
			for _, idx := range langSys {
				if int(idx) < len(g.features) && g.features[idx].Tag.IsVertical() {
					seen[idx] = true
				}
			}
		}
	}
	if len(seen) == 0 {
		for i, f := range g.features {
			if f.Tag.IsVertical() {
				seen[uint16(i)] = true
			}
		}
	}

	res := make([]uint16, 0, len(seen))
	for idx := range seen {
		res = append(res, idx)
	}
	slices.Sort(res)
	return res
}

// IsEmpty reports whether the table contains no data.  This is the case
// for tables with an unsupported version number.
func (g *Gsub) IsEmpty() bool {
	return len(g.scripts) == 0 && len(g.features) == 0 && len(g.lookups) == 0
}

// Scripts returns the script list.  The returned slice must not be modified.
func (g *Gsub) Scripts() []ScriptRecord {
	return g.scripts
}

// Features returns the feature list.  The returned slice must not be
// modified.
func (g *Gsub) Features() []FeatureRecord {
	return g.features
}

// Lookups returns the lookup list.  The returned slice must not be modified.
func (g *Gsub) Lookups() []Lookup {
	return g.lookups
}

// VerticalFeatures returns the indices of the features used for vertical
// glyph substitution, in increasing order.
func (g *Gsub) VerticalFeatures() []uint16 {
	return slices.Clone(g.featureSet)
}

// VerticalGlyph returns the substitute of gid for vertical writing.
// If there is no substitution, 0 is returned.
//
// Features are tried in order of increasing feature index, and lookups
// and subtables in the order given in the font.  The first subtable which
// covers gid determines the result.
func (g *Gsub) VerticalGlyph(gid glyph.ID) glyph.ID {
	for _, featureIdx := range g.featureSet {
		for _, lookupIdx := range g.features[featureIdx].LookupListIndices {
			if int(lookupIdx) >= len(g.lookups) {
				continue
			}
			lookup := &g.lookups[lookupIdx]
			if lookup.LookupType != 1 {
				continue
			}
			for _, st := range lookup.SubTables {
				if res, ok := st.Substitute(gid); ok {
					return res
				}
			}
		}
	}
	return 0
}

// Pair is a glyph together with its vertical substitute.
type Pair struct {
	From, To glyph.ID
}

// VerticalPairs lists all glyphs below numGlyphs which have a vertical
// substitute, in order of increasing glyph ID.
func (g *Gsub) VerticalPairs(numGlyphs int) []Pair {
	var res []Pair
	for gid := 0; gid < numGlyphs && gid <= 0xFFFF; gid++ {
		if sub := g.VerticalGlyph(glyph.ID(gid)); sub != 0 {
			res = append(res, Pair{From: glyph.ID(gid), To: sub})
		}
	}
	return res
}

// decoder keeps the state while a GSUB table is read.
type decoder struct {
	c    *parser.Cursor
	errs []error
}

func (d *decoder) fail(err error) {
	if len(d.errs) == 0 {
		tracer().Debugf("GSUB: %v", err)
	}
	d.errs = append(d.errs, err)
}

func (d *decoder) seek(pos int) bool {
	err := d.c.Seek(pos)
	if err != nil {
		d.fail(err)
		return false
	}
	return true
}

// readOffsets reads a uint16 count, followed by that many uint16 offsets.
func (d *decoder) readOffsets(pos int) []uint16 {
	if !d.seek(pos) {
		return nil
	}
	offsets, err := d.c.ReadUint16Slice()
	if err != nil {
		d.fail(err)
	}
	return offsets
}

// readRecordOffsets reads a uint16 count, followed by that many records.
// Each record consists of tagSize bytes, which are ignored, and a uint16
// offset.
func (d *decoder) readRecordOffsets(pos int, tagSize int) []uint16 {
	if !d.seek(pos) {
		return nil
	}
	count, err := d.c.ReadUint16()
	if err != nil {
		d.fail(err)
		return nil
	}
	recordSize := tagSize + 2
	offsets := make([]uint16, 0, min(int(count), d.c.Remaining()/recordSize))
	for i := 0; i < int(count); i++ {
		buf, err := d.c.ReadBytes(recordSize)
		if err != nil {
			d.fail(err)
			break
		}
		offsets = append(offsets, uint16(buf[tagSize])<<8|uint16(buf[tagSize+1]))
	}
	return offsets
}
