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

package maxp

import (
	"errors"
	"testing"

	"seehuhn.de/go/pdfcore/sfnt/parser"
)

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 300, 65535} {
		got, err := Decode(encode(n))
		if err != nil {
			t.Fatal(err)
		}
		if got != n {
			t.Errorf("got %d, want %d", got, n)
		}
	}
}

func TestTrueType(t *testing.T) {
	data := make([]byte, 32)
	data[1] = 1
	data[4] = 0x01
	data[5] = 0x02
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != 258 {
		t.Errorf("got %d, want 258", got)
	}
}

func TestMalformed(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0x50, 0})
	if !errors.Is(err, parser.ErrOutOfBounds) {
		t.Errorf("short table: got %v", err)
	}

	_, err = Decode([]byte{0, 2, 0, 0, 0, 1})
	if _, ok := err.(*parser.NotSupportedError); !ok {
		t.Errorf("bad version: got %v", err)
	}

	_, err = Decode(encode(1)[:4:4])
	if err == nil {
		t.Error("truncated table accepted")
	}

	_, err = Decode([]byte{0, 0, 0x50, 0, 0, 0})
	if _, ok := err.(*parser.InvalidFontError); !ok {
		t.Errorf("zero glyphs: got %v", err)
	}
}

// encode returns a version 0.5 "maxp" table, as used in fonts with CFF
// outlines.
func encode(numGlyphs int) []byte {
	version := uint32(versionCFF)
	return []byte{
		byte(version >> 24), byte(version >> 16), byte(version >> 8), byte(version),
		byte(numGlyphs >> 8), byte(numGlyphs),
	}
}
