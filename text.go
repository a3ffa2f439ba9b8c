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
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	utf16Encoding = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	utf16BOM      = []byte{0xFE, 0xFF}
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
)

// TextString encodes s as a PDF text string.
//
// Strings which only use characters where PDFDocEncoding agrees with
// ISO 8859-1 are stored as single bytes.  All other strings use UTF-16BE
// with a byte order mark.
func TextString(s string) String {
	if isPDFDocCompatible(s) {
		enc, err := charmap.ISO8859_1.NewEncoder().String(s)
		if err == nil {
			return String(enc)
		}
	}
	enc, err := utf16Encoding.NewEncoder().String(s)
	if err != nil {
		// Invalid UTF-8 input is replaced by U+FFFD by the encoder,
		// so this cannot happen.
		panic(err)
	}
	return String(enc)
}

// AsTextString decodes a PDF text string.
func AsTextString(x String) string {
	switch {
	case bytes.HasPrefix(x, utf16BOM):
		dec, err := utf16Encoding.NewDecoder().Bytes(x)
		if err == nil {
			return string(dec)
		}
	case bytes.HasPrefix(x, utf8BOM):
		return string(x[len(utf8BOM):])
	}
	dec, err := charmap.ISO8859_1.NewDecoder().Bytes(x)
	if err != nil {
		return string(x)
	}
	return string(dec)
}

// isPDFDocCompatible reports whether all runes in s are in the part of
// PDFDocEncoding which coincides with ISO 8859-1.
func isPDFDocCompatible(s string) bool {
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0x7E:
		case r >= 0xA1 && r <= 0xFF && r != 0xAD:
		default:
			return false
		}
	}
	return true
}

// Date creates a PDF String object encoding the given date and time.
func Date(t time.Time) String {
	s := t.Format("D:20060102150405-0700")
	k := len(s) - 2
	s = s[:k] + "'" + s[k:]
	return String(s)
}

// AsDate converts a PDF date string to a time.Time object.
// If the string does not have the correct format, an error is returned.
func AsDate(x String) (time.Time, error) {
	s := AsTextString(x)
	s = strings.ReplaceAll(s, "'", "")
	if s == "D:" || s == "" {
		return time.Time{}, fmt.Errorf("malformed date string %q", s)
	}

	formats := []string{
		"D:20060102150405-0700",
		"D:20060102150405-07",
		"D:20060102150405Z0000",
		"D:20060102150405Z00",
		"D:20060102150405Z",
		"D:20060102150405",
		"D:200601021504-0700",
		"D:200601021504Z",
		"D:200601021504",
		"D:2006010215",
		"D:20060102",
		"D:200601",
		"D:2006",
	}
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date string %q", s)
}
