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
	"compress/zlib"

	"golang.org/x/exp/maps"
)

// FlateEncoder prepares the data and the dictionary of a stream for
// writing to a file.
//
// The encoder never modifies the stream it was created from.  Data and
// dictionary are borrowed from the stream where possible; whenever they
// need to change, a private copy is made.
type FlateEncoder struct {
	data      []byte
	dataOwned bool

	dict      Dict
	dictOwned bool
}

// NewFlateEncoder prepares the stream s for writing.
//
// If compress is true and the stream has no filter, the data is compressed
// using the FlateDecode filter.  If compress is false and the stream has a
// filter, the data is decoded and the filter is removed.  In all other
// cases the raw stream data is used unchanged.
func NewFlateEncoder(s *Stream, compress bool) (*FlateEncoder, error) {
	raw, err := s.rawData()
	if err != nil {
		return nil, err
	}
	hasFilter := s.HasFilter()

	if hasFilter && !compress {
		data, err := decodeStream(s.Dict, raw)
		if err != nil {
			return nil, err
		}
		dict := maps.Clone(s.Dict)
		delete(dict, "Filter")
		delete(dict, "DecodeParms")
		return &FlateEncoder{
			data:      data,
			dataOwned: true,
			dict:      dict,
			dictOwned: true,
		}, nil
	}

	if hasFilter || !compress {
		return &FlateEncoder{
			data: raw,
			dict: s.Dict,
		}, nil
	}

	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	_, err = zw.Write(raw)
	if err != nil {
		return nil, err
	}
	err = zw.Close()
	if err != nil {
		return nil, err
	}

	dict := maps.Clone(s.Dict)
	if dict == nil {
		dict = Dict{}
	}
	dict["Length"] = Integer(buf.Len())
	dict["Filter"] = Name("FlateDecode")
	delete(dict, "DecodeParms")
	return &FlateEncoder{
		data:      buf.Bytes(),
		dataOwned: true,
		dict:      dict,
		dictOwned: true,
	}, nil
}

// Data returns the data to be written.  The returned slice must not be
// modified.
func (e *FlateEncoder) Data() []byte {
	return e.data
}

// SetData replaces the data to be written, for example by an encrypted
// version.  The encoder takes ownership of data.
func (e *FlateEncoder) SetData(data []byte) {
	e.data = data
	e.dataOwned = true
}

// Dict returns the dictionary to be written.
func (e *FlateEncoder) Dict() Dict {
	return e.dict
}

// OwnsData reports whether the data is a private copy.  If not, the data
// is shared with the stream.
func (e *FlateEncoder) OwnsData() bool {
	return e.dataOwned
}

// OwnsDict reports whether the dictionary is a private copy.  If not, the
// dictionary is shared with the stream.
func (e *FlateEncoder) OwnsDict() bool {
	return e.dictOwned
}

// UpdateLength sets the Length entry of the dictionary to n.  The shared
// stream dictionary is copied the first time its Length differs from n.
func (e *FlateEncoder) UpdateLength(n int) {
	if length, ok := e.dict["Length"].(Integer); ok && length == Integer(n) {
		return
	}
	if !e.dictOwned {
		e.dict = maps.Clone(e.dict)
		if e.dict == nil {
			e.dict = Dict{}
		}
		e.dictOwned = true
	}
	e.dict["Length"] = Integer(n)
}
