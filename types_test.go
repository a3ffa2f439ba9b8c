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

package pdf

import (
	"math"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in  Object
		out string
	}{
		{nil, "null"},
		{Null{}, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Integer(-7), "-7"},
		{Real(1), "1."},
		{Real(-0.5), "-0.5"},
		{String("a"), "(a)"},
		{String("a (test version)"), "(a (test version))"},
		{String("a (test version"), "(a \\(test version)"},
		{String("a) (bcd"), "(a\\) \\(bcd)"},
		{String("back\\slash\n"), "(back\\\\slash\\n)"},
		{String(""), "()"},
		{String("\000"), "<00>"},
		{String{0xFF, 0xFE, 'A'}, "<fffe41>"},
		{Name("Type"), "/Type"},
		{Name("A B#C"), "/A#20B#23C"},
		{Name("a/b"), "/a#2fb"},
		{Array{Integer(1), nil, Integer(3)}, "[1 null 3]"},
		{Array{}, "[]"},
		{Dict{}, "<<\n>>"},
		{Dict{"B": Integer(2), "A": Integer(1), "C": nil}, "<<\n/A 1\n/B 2\n>>"},
		{NewReference(12, 0), "12 0 R"},
		{NewReference(7, 3), "7 3 R"},
	}
	for _, test := range cases {
		out := Format(test.in)
		if out != test.out {
			t.Errorf("%v wrongly formatted, expected %q but got %q",
				test.in, test.out, out)
		}
	}
}

func TestReference(t *testing.T) {
	ref := NewReference(math.MaxUint32, 65535)
	if ref.Number() != math.MaxUint32 || ref.Generation() != 65535 {
		t.Errorf("wrong reference fields: %d %d", ref.Number(), ref.Generation())
	}
	if s := NewReference(3, 1).String(); s != "obj_3@1" {
		t.Errorf("wrong string %q", s)
	}

	err := Reference(1 << 50).PDF(&Archive{w: nil}, nil)
	if err == nil {
		t.Error("invalid reference written without error")
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		in   Object
		kind Kind
	}{
		{nil, KindNull},
		{Bool(true), KindBool},
		{Integer(1), KindInteger},
		{Real(1), KindReal},
		{String("x"), KindString},
		{Name("x"), KindName},
		{Array{}, KindArray},
		{Dict{}, KindDict},
		{NewReference(1, 0), KindReference},
		{NewStream(nil, nil), KindStream},
	}
	for _, test := range cases {
		if k := KindOf(test.in); k != test.kind {
			t.Errorf("%v: wrong kind %s != %s", test.in, k, test.kind)
		}
	}
}

func TestTextString(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"\000\011\n\f\r",
		"ein Bär",
		"o țesătură",
		"中文",
		"日本語",
	}
	for _, test := range cases {
		enc := TextString(test)
		out := AsTextString(enc)
		if out != test {
			t.Errorf("wrong text: %q != %q", out, test)
		}
	}
}

func TestTextStringEncoding(t *testing.T) {
	if enc := TextString("Bär"); string(enc) != "B\xe4r" {
		t.Errorf("wrong single-byte encoding %q", enc)
	}
	if enc := TextString("中"); string(enc) != "\xfe\xff\x4e\x2d" {
		t.Errorf("wrong UTF-16 encoding %q", enc)
	}
	if s := AsTextString(String("\xef\xbb\xbfa\xc3\xa4")); s != "aä" {
		t.Errorf("wrong UTF-8 decoding %q", s)
	}
}

func TestDateString(t *testing.T) {
	PST := time.FixedZone("PST", -8*60*60)
	cases := []time.Time{
		time.Date(1998, 12, 23, 19, 52, 0, 0, PST),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 24, 16, 30, 12, 0, time.FixedZone("", 90*60)),
	}
	for _, test := range cases {
		enc := Date(test)
		out, err := AsDate(enc)
		if err != nil {
			t.Error(err)
		} else if !test.Equal(out) {
			t.Errorf("wrong time: %s != %s", out, test)
		}
	}
}
