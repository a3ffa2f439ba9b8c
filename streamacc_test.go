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

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"seehuhn.de/go/pdfcore/validator"
)

// rangeAvail makes the bytes before a given offset available.
type rangeAvail struct {
	end int64
}

func (a *rangeAvail) IsDataAvail(offset, size int64) bool {
	return offset >= 0 && offset+size <= a.end
}

type hints struct {
	segments [][2]int64
}

func (h *hints) AddSegment(offset, size int64) {
	h.segments = append(h.segments, [2]int64{offset, size})
}

func TestStreamAccValidator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pdfcore.validator")
	defer teardown()

	text := bytes.Repeat([]byte("progressive "), 100)
	payload := deflate(text)

	file := make([]byte, 3000)
	const offset = 2000
	copy(file[offset:], payload)

	avail := &rangeAvail{end: 1024}
	h := &hints{}
	v := validator.New(bytes.NewReader(file), avail)
	v.SetDownloadHints(h)

	s := NewStreamFromRegion(Dict{"Filter": Name("FlateDecode")},
		v, offset, int64(len(payload)))
	acc := NewStreamAcc(s)

	_, err := acc.LoadFiltered()
	if !errors.Is(err, validator.ErrDataNotAvailable) {
		t.Fatalf("wrong error %v", err)
	}
	if !v.HasUnavailableData() {
		t.Error("unavailable data not recorded")
	}
	if len(h.segments) != 1 || h.segments[0][0] != 1536 {
		t.Errorf("wrong download hints %v", h.segments)
	}

	avail.end = int64(len(file))
	v.ResetErrors()

	data, err := acc.LoadFiltered()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, text) {
		t.Error("wrong data")
	}
	if v.HasProblems() {
		t.Error("validator reports problems after successful read")
	}

	raw, err := acc.LoadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, payload) {
		t.Error("wrong raw data")
	}
}

func TestStreamAccCaching(t *testing.T) {
	s := NewStream(Dict{"Filter": Name("ASCIIHexDecode")}, []byte("414243>"))
	acc := NewStreamAcc(s)

	data, err := acc.LoadFiltered()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ABC" || acc.Size() != 3 {
		t.Errorf("wrong data %q", data)
	}

	// The cached data is used, even though the stream changed.
	s.SetDataAndRemoveFilter([]byte("xyz"))
	s.Dict["Filter"] = Name("ASCIIHexDecode")
	data, _ = acc.LoadFiltered()
	if string(data) != "ABC" {
		t.Errorf("cache not used: %q", data)
	}

	detached := acc.DetachData()
	if string(detached) != "ABC" || acc.Size() != 0 {
		t.Error("DetachData failed")
	}

	r, err := acc.Reader()
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	_, err = buf.ReadFrom(r)
	if err == nil {
		t.Error("invalid hex data decoded without error")
	}
}

func TestStreamAccUnfiltered(t *testing.T) {
	s := NewStream(nil, []byte("plain"))
	acc := NewStreamAcc(s)

	raw, err := acc.LoadRaw()
	if err != nil {
		t.Fatal(err)
	}
	filtered, err := acc.LoadFiltered()
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "plain" || string(filtered) != "plain" {
		t.Error("wrong data")
	}

	data := acc.DetachData()
	data[0] = 'P'
	if raw, _ := s.rawData(); string(raw) != "plain" {
		t.Error("detached data shares memory with the stream")
	}
}
