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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestInfoRoundTrip(t *testing.T) {
	trapped := false
	info := &Info{
		Title:        "Über PDF",
		Author:       "Jochen Voß",
		Keywords:     "PDF, Test",
		Producer:     "pdfcore",
		CreationDate: time.Date(2024, 2, 29, 13, 5, 0, 0, time.FixedZone("", 3600)),
		Trapped:      &trapped,
		Custom:       map[string]string{"Source": "☺ unit test"},
	}

	got := DecodeInfo(info.AsDict())
	if diff := cmp.Diff(info, got); diff != "" {
		t.Errorf("round trip failed (-want +got):\n%s", diff)
	}
}

func TestInfoEmpty(t *testing.T) {
	var info Info
	if d := info.AsDict(); len(d) != 0 {
		t.Errorf("unexpected entries %v", d)
	}

	w, err := NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := info.Embed(w)
	if err != nil {
		t.Fatal(err)
	}
	if ref != 0 {
		t.Error("empty Info dictionary written")
	}
	if _, ok := w.Trailer["Info"]; ok {
		t.Error("trailer has Info entry")
	}
}

func TestInfoMalformed(t *testing.T) {
	dict := Dict{
		"Title":        Integer(1),
		"CreationDate": String("yesterday"),
		"Trapped":      Name("Unknown"),
		"Empty":        String(""),
	}
	got := DecodeInfo(dict)
	if diff := cmp.Diff(&Info{}, got); diff != "" {
		t.Errorf("unexpected fields (-want +got):\n%s", diff)
	}
}

func TestInfoTrappedVersion(t *testing.T) {
	trapped := true
	info := &Info{Trapped: &trapped}
	w, err := NewWriter(&bytes.Buffer{}, &WriterOptions{Version: V1_2})
	if err != nil {
		t.Fatal(err)
	}
	_, err = info.Embed(w)
	if _, ok := err.(*NotSupportedError); !ok {
		t.Errorf("expected NotSupportedError, got %v", err)
	}
}
