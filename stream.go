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
	"io"
	"strconv"
)

// Stream represents a stream object in a PDF file.
//
// The data of a stream is held either in memory or as a region of an
// [io.ReaderAt], never both.  The "Length" entry of the stream dictionary
// is updated whenever the data is replaced.
type Stream struct {
	Dict

	data   []byte
	region *fileRegion
}

// fileRegion describes stream data which is stored in a file.
type fileRegion struct {
	r      io.ReaderAt
	offset int64
	length int64
}

// NewStream allocates a new stream with the given dictionary and data.
// The stream takes ownership of both dict and data.  If dict is nil, a new
// dictionary is allocated.
func NewStream(dict Dict, data []byte) *Stream {
	if dict == nil {
		dict = Dict{}
	}
	s := &Stream{Dict: dict}
	s.SetData(data)
	return s
}

// NewStreamFromRegion allocates a stream whose data is the given byte range
// of r.  The data is only read when it is needed.
func NewStreamFromRegion(dict Dict, r io.ReaderAt, offset, length int64) *Stream {
	if dict == nil {
		dict = Dict{}
	}
	s := &Stream{Dict: dict}
	s.SetDataFromRegion(r, offset, length)
	return s
}

// Kind implements the [Object] interface.
func (*Stream) Kind() Kind { return KindStream }

func (x *Stream) String() string {
	return "<Stream, " + strconv.FormatInt(x.RawSize(), 10) + " bytes>"
}

// SetData replaces the stream data by the given in-memory buffer.
// The stream takes ownership of data.
func (x *Stream) SetData(data []byte) {
	x.data = data
	x.region = nil
	x.setLength(int64(len(data)))
}

// SetDataAndRemoveFilter replaces the stream data and removes all filter
// information from the stream dictionary.  This is used when the new data
// is not encoded.
func (x *Stream) SetDataAndRemoveFilter(data []byte) {
	x.SetData(data)
	delete(x.Dict, "Filter")
	delete(x.Dict, "DecodeParms")
}

// SetDataFromRegion replaces the stream data by a byte range of r.
func (x *Stream) SetDataFromRegion(r io.ReaderAt, offset, length int64) {
	x.data = nil
	x.region = &fileRegion{r: r, offset: offset, length: length}
	x.setLength(length)
}

// TakeData removes the data from the stream and returns it.
// Data stored in a file region is read into memory first.  Afterwards the
// stream is empty and has length 0.
func (x *Stream) TakeData() ([]byte, error) {
	data, err := x.rawData()
	if err != nil {
		return nil, err
	}
	x.SetData(nil)
	return data, nil
}

// RawSize returns the length of the raw stream data, before any filters
// are applied.
func (x *Stream) RawSize() int64 {
	if x.region != nil {
		return x.region.length
	}
	return int64(len(x.data))
}

// IsFileBased reports whether the stream data is stored in a file region.
func (x *Stream) IsFileBased() bool {
	return x.region != nil
}

// HasFilter reports whether the stream dictionary specifies a filter.
func (x *Stream) HasFilter() bool {
	switch f := x.Dict["Filter"].(type) {
	case Name:
		return true
	case Array:
		return len(f) > 0
	}
	return false
}

// IsMetadata reports whether the stream is an XML metadata stream.
// Metadata streams are written without compression or encryption, so that
// they can be read by applications which do not understand PDF.
func (x *Stream) IsMetadata() bool {
	return x.Dict.GetName("Type") == "Metadata" &&
		x.Dict.GetName("Subtype") == "XML"
}

func (x *Stream) setLength(n int64) {
	if x.Dict == nil {
		x.Dict = Dict{}
	}
	x.Dict["Length"] = Integer(n)
}

// rawData returns the raw, undecoded stream data.  For in-memory streams
// the returned slice shares memory with the stream.
func (x *Stream) rawData() ([]byte, error) {
	if x.region == nil {
		return x.data, nil
	}
	if x.region.length == 0 {
		return nil, nil
	}
	buf := make([]byte, x.region.length)
	n, err := x.region.r.ReadAt(buf, x.region.offset)
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		return nil, &MalformedFileError{
			Pos: x.region.offset + int64(n),
			Err: fmt.Errorf("stream data: %w", io.ErrUnexpectedEOF),
		}
	}
	return nil, fmt.Errorf("reading stream data: %w", err)
}

// rawReader returns a reader for the raw, undecoded stream data.
func (x *Stream) rawReader() io.Reader {
	if x.region == nil {
		return bytes.NewReader(x.data)
	}
	return io.NewSectionReader(x.region.r, x.region.offset, x.region.length)
}

// Clone returns a deep copy of the stream.  See [Clone].
func (x *Stream) Clone() *Stream {
	return x.clone(make(map[uintptr]bool)).(*Stream)
}

func (x *Stream) clone(visited map[uintptr]bool) Object {
	visited[identity(x)] = true

	res := &Stream{}
	if x.region != nil {
		region := *x.region
		res.region = &region
	} else if x.data != nil {
		res.data = bytes.Clone(x.data)
	}

	if x.Dict != nil && !visited[identity(x.Dict)] {
		res.Dict = x.Dict.clone(visited).(Dict)
	} else {
		res.Dict = Dict{}
	}
	res.setLength(res.RawSize())
	return res
}

// PDF implements the [Object] interface.
//
// Unless the stream is a metadata stream, the data is compressed (if no
// filter is set already) and, if enc is not nil, encrypted.  The Length
// entry written to the file always matches the number of bytes written
// between "stream" and "endstream".  The stream itself is not modified.
func (x *Stream) PDF(w io.Writer, enc *Encryptor) error {
	isMetadata := x.IsMetadata()

	encoder, err := NewFlateEncoder(x, !isMetadata)
	if err != nil {
		return err
	}

	if enc != nil && !isMetadata {
		encrypted, err := enc.Encrypt(encoder.Data())
		if err != nil {
			return err
		}
		encoder.SetData(encrypted)
	}
	encoder.UpdateLength(len(encoder.Data()))

	err = encoder.Dict().PDF(w, enc)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("stream\r\n"))
	if err != nil {
		return err
	}
	_, err = w.Write(encoder.Data())
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\r\nendstream"))
	return err
}
