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

package coverage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfcore/sfnt/parser"
)

func TestGlyphArray(t *testing.T) {
	cov := GlyphArray{7, 3, 9}
	cases := []struct {
		gid  glyph.ID
		want int
	}{
		{7, 0}, {3, 1}, {9, 2}, {4, -1}, {0, -1},
	}
	for _, c := range cases {
		if got := cov.Index(c.gid); got != c.want {
			t.Errorf("Index(%d) = %d, want %d", c.gid, got, c.want)
		}
	}
}

func TestRangesIndex(t *testing.T) {
	cov := Ranges{
		{Start: 10, End: 14, StartCoverageIndex: 0},
		{Start: 20, End: 20, StartCoverageIndex: 5},
		{Start: 30, End: 39, StartCoverageIndex: 6},
	}
	for _, r := range cov {
		for g := int(r.Start); g <= int(r.End); g++ {
			want := int(r.StartCoverageIndex) + g - int(r.Start)
			if got := cov.Index(glyph.ID(g)); got != want {
				t.Errorf("Index(%d) = %d, want %d", g, got, want)
			}
		}
	}
	for _, g := range []glyph.ID{0, 9, 15, 19, 21, 29, 40, 0xFFFF} {
		if got := cov.Index(g); got != -1 {
			t.Errorf("Index(%d) = %d, want -1", g, got)
		}
	}
}

func TestNone(t *testing.T) {
	var cov Coverage = None{}
	for _, g := range []glyph.ID{0, 1, 0xFFFF} {
		if cov.Index(g) != -1 {
			t.Errorf("None matched glyph %d", g)
		}
	}
}

func TestRead(t *testing.T) {
	cases := []struct {
		in   Coverage
		want Coverage
	}{
		{GlyphArray{1, 2, 3}, GlyphArray{1, 2, 3}},
		{GlyphArray{}, GlyphArray{}},
		{Ranges{{Start: 4, End: 8, StartCoverageIndex: 0}}, Ranges{{Start: 4, End: 8, StartCoverageIndex: 0}}},
		{None{}, GlyphArray{}},
	}
	for i, c := range cases {
		cov, err := Read(parser.New("test", encode(c.in)))
		if err != nil {
			t.Errorf("%d: %v", i, err)
			continue
		}
		if d := cmp.Diff(c.want, cov); d != "" {
			t.Errorf("%d: %s", i, d)
		}
	}
}

func TestReadUnknownFormat(t *testing.T) {
	cov, err := Read(parser.New("test", []byte{0, 3, 0, 1, 0, 5}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cov.(None); !ok {
		t.Errorf("expected None, got %T", cov)
	}
}

func TestReadTruncated(t *testing.T) {
	// format 2, two ranges declared, only one present
	data := []byte{0, 2, 0, 2, 0, 5, 0, 6, 0, 0, 0, 9}
	cov, err := Read(parser.New("test", data))
	if err == nil {
		t.Fatal("expected an error")
	}
	want := Ranges{{Start: 5, End: 6, StartCoverageIndex: 0}}
	if d := cmp.Diff(want, cov); d != "" {
		t.Error(d)
	}
}

func FuzzCoverage(f *testing.F) {
	f.Add(encode(GlyphArray{1, 2, 3}))
	f.Add(encode(Ranges{{Start: 1, End: 3}, {Start: 7, End: 9, StartCoverageIndex: 3}}))
	f.Fuzz(func(t *testing.T, data []byte) {
		cov, err := Read(parser.New("fuzz", data))
		if err != nil {
			return
		}
		for _, g := range cov.Glyphs() {
			if cov.Index(g) < 0 {
				t.Fatalf("glyph %d listed but not covered", g)
			}
		}
	})
}

// encode returns the binary representation of a coverage table.
// None is encoded as an empty format 1 table.
func encode(cov Coverage) []byte {
	switch cov := cov.(type) {
	case GlyphArray:
		buf := make([]byte, 4+2*len(cov))
		buf[1] = 1
		buf[2] = byte(len(cov) >> 8)
		buf[3] = byte(len(cov))
		for i, g := range cov {
			buf[4+2*i] = byte(g >> 8)
			buf[5+2*i] = byte(g)
		}
		return buf
	case Ranges:
		buf := make([]byte, 4+6*len(cov))
		buf[1] = 2
		buf[2] = byte(len(cov) >> 8)
		buf[3] = byte(len(cov))
		for i, r := range cov {
			p := 4 + 6*i
			buf[p] = byte(r.Start >> 8)
			buf[p+1] = byte(r.Start)
			buf[p+2] = byte(r.End >> 8)
			buf[p+3] = byte(r.End)
			buf[p+4] = byte(r.StartCoverageIndex >> 8)
			buf[p+5] = byte(r.StartCoverageIndex)
		}
		return buf
	default:
		return []byte{0, 1, 0, 0}
	}
}
