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

// Tag is a four-character OpenType tag, packed into a big-endian uint32.
type Tag uint32

// Feature tags for vertical writing.
const (
	TagVrt2 Tag = 'v'<<24 | 'r'<<16 | 't'<<8 | '2'
	TagVert Tag = 'v'<<24 | 'e'<<16 | 'r'<<8 | 't'
)

// MakeTag packs the first four bytes of s into a Tag.
// Shorter strings are padded with spaces.
func MakeTag(s string) Tag {
	var t Tag
	for i := 0; i < 4; i++ {
		b := byte(' ')
		if i < len(s) {
			b = s[i]
		}
		t = t<<8 | Tag(b)
	}
	return t
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// IsVertical reports whether t is one of the vertical writing feature tags.
func (t Tag) IsVertical() bool {
	return t == TagVrt2 || t == TagVert
}
