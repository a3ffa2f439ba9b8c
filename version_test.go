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
	"errors"
	"testing"
)

func TestVersionRoundTrip(t *testing.T) {
	for v := V1_0; v <= V2_0; v++ {
		s, err := v.ToString()
		if err != nil {
			t.Errorf("%d: %v", int(v), err)
			continue
		}
		back, err := ParseVersion(s)
		if err != nil {
			t.Errorf("%q: %v", s, err)
			continue
		}
		if back != v {
			t.Errorf("%q: got %d, want %d", s, int(back), int(v))
		}
	}
}

func TestVersionInvalid(t *testing.T) {
	for _, in := range []string{"", "0.9", "1.8", "2.1", "1", "1.7 ", "PDF-1.7"} {
		if _, err := ParseVersion(in); err != errVersion {
			t.Errorf("%q: got error %v", in, err)
		}
	}

	cases := []struct {
		v    Version
		want string
	}{
		{0, "pdf.Version(0)"},
		{-1, "pdf.Version(-1)"},
		{V2_0 + 1, "pdf.Version(10)"},
	}
	for _, test := range cases {
		if _, err := test.v.ToString(); err != errVersion {
			t.Errorf("%d: got error %v", int(test.v), err)
		}
		if got := test.v.String(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestDefaultCipher(t *testing.T) {
	cases := []struct {
		v         Version
		cipher    Cipher
		keyLength int
	}{
		{V1_1, CipherRC4, 40},
		{V1_3, CipherRC4, 40},
		{V1_4, CipherRC4, 128},
		{V1_5, CipherRC4, 128},
		{V1_6, CipherAES, 128},
		{V1_7, CipherAES, 128},
		{V2_0, CipherAES, 256},
	}
	for _, test := range cases {
		c, n := defaultCipher(test.v)
		if c != test.cipher || n != test.keyLength {
			t.Errorf("%s: got %s-%d, want %s-%d",
				test.v, c, n, test.cipher, test.keyLength)
		}

		// The default cipher is always usable with its version.
		_, err := NewWriter(&bytes.Buffer{}, &WriterOptions{
			Version:      test.v,
			UserPassword: "x",
		})
		if err != nil {
			t.Errorf("%s: %v", test.v, err)
		}
	}
}

func TestWriterVersionChecks(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, &WriterOptions{Version: V2_0 + 1})
	if err != errVersion {
		t.Errorf("unsupported version: got error %v", err)
	}

	_, err = NewWriter(&bytes.Buffer{}, &WriterOptions{
		Version:      V1_4,
		UserPassword: "x",
		Cipher:       CipherAES,
		KeyLength:    128,
	})
	var notSupported *NotSupportedError
	if !errors.As(err, &notSupported) {
		t.Errorf("AES in PDF 1.4: got error %v", err)
	}
}
