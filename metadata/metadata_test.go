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

package metadata

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfcore"
)

// extractStream returns the data of the only stream in a PDF file.
func extractStream(t *testing.T, out []byte) []byte {
	t.Helper()
	start := bytes.Index(out, []byte("stream\r\n"))
	end := bytes.Index(out, []byte("\r\nendstream"))
	if start < 0 || end < start {
		t.Fatal("stream not found in output")
	}
	return out[start+8 : end]
}

func TestRoundTrip(t *testing.T) {
	packet := xmp.NewPacket()
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.Und, "Test Document")
	dc.Creator.Append(xmp.NewProperName("Test Author"))
	err := packet.Set(dc)
	if err != nil {
		t.Fatalf("failed to set properties: %v", err)
	}
	original := &Stream{Data: packet}

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, &pdf.WriterOptions{
		Version:      pdf.V1_7,
		UserPassword: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = original.Embed(w)
	if err != nil {
		t.Fatalf("failed to embed metadata: %v", err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	body := extractStream(t, buf.Bytes())
	if !bytes.Contains(body, []byte("Test Document")) {
		t.Error("metadata stream is not stored verbatim")
	}

	stm := pdf.NewStreamFromRegion(pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}, bytes.NewReader(body), 0, int64(len(body)))
	extracted, err := Read(stm)
	if err != nil {
		t.Fatalf("failed to read metadata: %v", err)
	}
	var originalDC, extractedDC xmp.DublinCore
	original.Data.Get(&originalDC)
	extracted.Data.Get(&extractedDC)
	if diff := cmp.Diff(extractedDC, originalDC); diff != "" {
		t.Errorf("round trip failed (-got +want):\n%s", diff)
	}
}

func TestNewDocument(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewDocument("Report", "A. Author", date)
	if err != nil {
		t.Fatal(err)
	}

	stm, err := s.AsStream(&xmp.PacketOptions{Pretty: true})
	if err != nil {
		t.Fatal(err)
	}
	if !stm.IsMetadata() {
		t.Error("stream is not marked as metadata")
	}

	back, err := Read(stm)
	if err != nil {
		t.Fatal(err)
	}
	var dc xmp.DublinCore
	back.Data.Get(&dc)
	want := xmp.DublinCore{}
	want.Title.Set(language.Und, "Report")
	want.Creator.Append(xmp.NewProperName("A. Author"))
	if diff := cmp.Diff(dc.Title, want.Title); diff != "" {
		t.Errorf("wrong title (-got +want):\n%s", diff)
	}
}

func TestEmbedOldVersion(t *testing.T) {
	s, err := NewDocument("x", "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	w, err := pdf.NewWriter(&bytes.Buffer{}, &pdf.WriterOptions{Version: pdf.V1_3})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Embed(w)
	var notSupported *pdf.NotSupportedError
	if !errors.As(err, &notSupported) {
		t.Errorf("expected NotSupportedError, got %v", err)
	}
}

func TestReadWrongType(t *testing.T) {
	stm := pdf.NewStream(pdf.Dict{"Type": pdf.Name("XObject")}, []byte("<x/>"))
	_, err := Read(stm)
	if err != errNotMetadata {
		t.Errorf("expected errNotMetadata, got %v", err)
	}
}

func TestEqualNil(t *testing.T) {
	var a *Stream
	b := &Stream{Data: xmp.NewPacket()}
	if !a.Equal(nil) {
		t.Error("nil streams differ")
	}
	if a.Equal(b) || b.Equal(a) {
		t.Error("nil stream equals non-nil stream")
	}
	if !b.Equal(b) {
		t.Error("stream differs from itself")
	}
}
