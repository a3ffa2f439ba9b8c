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

// Package sfnt provides access to the character map and the vertical
// glyph substitutions of TrueType and OpenType fonts.
package sfnt

import (
	"io"

	"github.com/npillmayer/schuko/tracing"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/header"

	"seehuhn.de/go/pdfcore/sfnt/maxp"
	"seehuhn.de/go/pdfcore/sfnt/opentype/gtab"
	"seehuhn.de/go/pdfcore/sfnt/parser"
)

// tracer writes to trace with key 'pdfcore.sfnt'
func tracer() tracing.Trace {
	return tracing.Select("pdfcore.sfnt")
}

// Font is a TrueType or OpenType font.
type Font struct {
	ScalerType uint32

	// Tables holds the raw data of all tables in the font file.
	Tables map[string][]byte

	// NumGlyphs is the number of glyphs, as given in the "maxp" table.
	// The value is 0 if the font has no "maxp" table.
	NumGlyphs int

	cmap cmap.Subtable
	gsub *gtab.Gsub
}

// Read reads a font file.
func Read(r io.ReaderAt) (*Font, error) {
	info, err := header.Read(r)
	if err != nil {
		return nil, err
	}

	tables := make(map[string][]byte, len(info.Toc))
	for name := range info.Toc {
		data, err := info.ReadTableBytes(r, name)
		if err != nil {
			return nil, err
		}
		tables[name] = data
	}
	return New(info.ScalerType, tables)
}

// New constructs a font from the raw table data.
// The font must have a "cmap" table.  The "GSUB" table is optional.
func New(scalerType uint32, tables map[string][]byte) (*Font, error) {
	cmapData, ok := tables["cmap"]
	if !ok {
		return nil, &parser.InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "missing cmap table",
		}
	}
	cmapTable, err := cmap.Decode(cmapData)
	if err != nil {
		return nil, err
	}
	subtable, err := cmapTable.GetBest()
	if err != nil {
		return nil, err
	}

	f := &Font{
		ScalerType: scalerType,
		Tables:     tables,
		cmap:       subtable,
	}

	if data, ok := tables["maxp"]; ok {
		f.NumGlyphs, err = maxp.Decode(data)
		if err != nil {
			return nil, err
		}
	}

	// Fonts without a GSUB table get an empty table.
	f.gsub = gtab.Read(tables["GSUB"])
	if _, ok := tables["GSUB"]; ok && f.gsub.IsEmpty() {
		tracer().Infof("font has an unusable GSUB table")
	}

	return f, nil
}

// GSUB returns the decoded "GSUB" table of the font.
// For fonts without a usable GSUB table, the returned table is empty.
func (f *Font) GSUB() *gtab.Gsub {
	return f.gsub
}

// GlyphIndex returns the glyph used to show r.
// If vertical is true and the font has a vertical substitute for the
// glyph, the substitute is returned.  Runes not mapped by the font give 0.
func (f *Font) GlyphIndex(r rune, vertical bool) glyph.ID {
	gid := f.cmap.Lookup(r)
	if gid == 0 || !vertical {
		return gid
	}
	if sub := f.gsub.VerticalGlyph(gid); sub != 0 {
		return sub
	}
	return gid
}

// Write writes the font tables as an sfnt file.
func (f *Font) Write(w io.Writer) (int64, error) {
	return WriteTables(w, f.ScalerType, f.Tables)
}
