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
	"io"
)

// StreamAcc gives access to the data of a stream.  The data is loaded on
// first use and then cached.
//
// If the stream data is stored in a file region, the data is read from
// the [io.ReaderAt] given when the region was set.  This may be a
// [seehuhn.de/go/pdfcore/validator.Validator]; in this case, errors for
// data which has not been downloaded yet wrap
// [seehuhn.de/go/pdfcore/validator.ErrDataNotAvailable] and loading can be
// retried once the data has arrived.
type StreamAcc struct {
	stream *Stream

	data  []byte
	state accState
}

type accState int

const (
	accEmpty accState = iota
	accRaw
	accFiltered
)

// NewStreamAcc returns an accessor for the data of s.
func NewStreamAcc(s *Stream) *StreamAcc {
	return &StreamAcc{stream: s}
}

// Stream returns the stream the accessor reads from.
func (acc *StreamAcc) Stream() *Stream {
	return acc.stream
}

// LoadRaw returns the raw, undecoded stream data.
// The returned slice must not be modified.
func (acc *StreamAcc) LoadRaw() ([]byte, error) {
	if acc.state == accRaw || acc.state == accFiltered && !acc.stream.HasFilter() {
		return acc.data, nil
	}
	data, err := acc.stream.rawData()
	if err != nil {
		return nil, err
	}
	acc.data = data
	acc.state = accRaw
	return data, nil
}

// LoadFiltered returns the stream data after all filters have been
// applied.  The returned slice must not be modified.
func (acc *StreamAcc) LoadFiltered() ([]byte, error) {
	if acc.state == accFiltered || acc.state == accRaw && !acc.stream.HasFilter() {
		return acc.data, nil
	}
	raw, err := acc.stream.rawData()
	if err != nil {
		return nil, err
	}
	data, err := decodeStream(acc.stream.Dict, raw)
	if err != nil {
		return nil, err
	}
	acc.data = data
	acc.state = accFiltered
	return data, nil
}

// Reader returns a reader for the decoded stream data.  Unlike
// LoadFiltered, the decoded data is not held in memory.
func (acc *StreamAcc) Reader() (io.Reader, error) {
	if acc.state == accFiltered {
		return bytes.NewReader(acc.data), nil
	}
	filters, err := streamFilters(acc.stream.Dict)
	if err != nil {
		return nil, err
	}
	r := acc.stream.rawReader()
	for _, f := range filters {
		r, err = applyFilter(r, f)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Size returns the length of the loaded data, or 0 if no data has been
// loaded.
func (acc *StreamAcc) Size() int {
	return len(acc.data)
}

// DetachData returns the loaded data and releases it from the accessor.
// The caller takes ownership of the returned slice.
func (acc *StreamAcc) DetachData() []byte {
	data := acc.data
	shared := !acc.stream.IsFileBased() && !acc.stream.HasFilter() ||
		acc.state == accRaw && !acc.stream.IsFileBased()
	if shared {
		data = bytes.Clone(data)
	}
	acc.data = nil
	acc.state = accEmpty
	return data
}
