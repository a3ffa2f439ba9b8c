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
	"bufio"
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfcore/ascii85"
)

// filterSpec describes one entry of the filter pipeline of a stream.
type filterSpec struct {
	Name  Name
	Parms Dict
}

// streamFilters returns the filters listed in a stream dictionary, in the
// order in which they must be applied for decoding.
func streamFilters(dict Dict) ([]filterSpec, error) {
	switch f := dict["Filter"].(type) {
	case nil:
		return nil, nil
	case Name:
		parms, _ := dict["DecodeParms"].(Dict)
		return []filterSpec{{Name: f, Parms: parms}}, nil
	case Array:
		parmsArray, _ := dict["DecodeParms"].(Array)
		res := make([]filterSpec, len(f))
		for i, obj := range f {
			name, ok := obj.(Name)
			if !ok {
				return nil, &MalformedFileError{
					Err: fmt.Errorf("invalid filter description %s", Format(obj)),
				}
			}
			res[i].Name = name
			if i < len(parmsArray) {
				res[i].Parms, _ = parmsArray[i].(Dict)
			}
		}
		return res, nil
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid filter description %s", Format(f)),
		}
	}
}

// applyFilter returns a reader which decodes the data read from r.
func applyFilter(r io.Reader, f filterSpec) (io.Reader, error) {
	switch f.Name {
	case "FlateDecode", "Fl":
		return newFlateReader(r, f.Parms)
	case "ASCII85Decode", "A85":
		return ascii85.NewDecoder(r), nil
	case "ASCIIHexDecode", "AHx":
		return &hexReader{r: r}, nil
	case "RunLengthDecode", "RL":
		return &runLengthReader{r: bufio.NewReader(r)}, nil
	default:
		return nil, &NotSupportedError{Feature: "filter " + string(f.Name)}
	}
}

// decodeStream returns the fully decoded data of a stream.
func decodeStream(dict Dict, raw []byte) ([]byte, error) {
	filters, err := streamFilters(dict)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return raw, nil
	}

	var r io.Reader = bytes.NewReader(raw)
	for _, f := range filters {
		r, err = applyFilter(r, f)
		if err != nil {
			return nil, err
		}
	}
	return io.ReadAll(r)
}

// predictorParams holds the decode parameters of the FlateDecode filter.
type predictorParams struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
}

func getPredictorParams(parms Dict) (*predictorParams, error) {
	p := &predictorParams{
		Predictor:        1,
		Colors:           1,
		BitsPerComponent: 8,
		Columns:          1,
	}
	if val, ok := parms["Predictor"].(Integer); ok {
		p.Predictor = int(val)
	}
	if val, ok := parms["Colors"].(Integer); ok {
		p.Colors = int(val)
	}
	if val, ok := parms["BitsPerComponent"].(Integer); ok {
		p.BitsPerComponent = int(val)
	}
	if val, ok := parms["Columns"].(Integer); ok {
		p.Columns = int(val)
	}

	if p.Colors < 1 || p.Colors > 32 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid number of colors %d", p.Colors),
		}
	}
	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
		// pass
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid BitsPerComponent %d", p.BitsPerComponent),
		}
	}
	if p.Columns < 1 || p.Columns > 1<<20 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid number of columns %d", p.Columns),
		}
	}
	return p, nil
}

// bytesPerPixel returns the distance between corresponding bytes of
// neighbouring pixels.
func (p *predictorParams) bytesPerPixel() int {
	return (p.Colors*p.BitsPerComponent + 7) / 8
}

// rowBytes returns the number of bytes in one row of image data.
func (p *predictorParams) rowBytes() int {
	return (p.Colors*p.BitsPerComponent*p.Columns + 7) / 8
}

func newFlateReader(r io.Reader, parms Dict) (io.Reader, error) {
	p, err := getPredictorParams(parms)
	if err != nil {
		return nil, err
	}
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}

	switch {
	case p.Predictor == 1:
		return zr, nil
	case p.Predictor == 2:
		if p.BitsPerComponent != 8 {
			return nil, &NotSupportedError{
				Feature: fmt.Sprintf("TIFF predictor with %d bits per component",
					p.BitsPerComponent),
			}
		}
		return &tiffReader{
			r:   zr,
			bpp: p.bytesPerPixel(),
			row: make([]byte, p.rowBytes()),
		}, nil
	case p.Predictor >= 10 && p.Predictor <= 15:
		n := p.rowBytes()
		return &pngReader{
			r:    zr,
			bpp:  p.bytesPerPixel(),
			prev: make([]byte, n),
			cur:  make([]byte, 1+n),
		}, nil
	default:
		return nil, &NotSupportedError{
			Feature: fmt.Sprintf("predictor %d", p.Predictor),
		}
	}
}

// pngReader undoes the PNG predictors.  Each row of data starts with a
// byte which selects the prediction algorithm for this row.
type pngReader struct {
	r    io.Reader
	bpp  int
	prev []byte
	cur  []byte
	pend []byte
}

func (r *pngReader) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		if len(r.pend) > 0 {
			m := copy(b[n:], r.pend)
			n += m
			r.pend = r.pend[m:]
			continue
		}

		_, err := io.ReadFull(r.r, r.cur)
		if err == io.ErrUnexpectedEOF {
			return n, &MalformedFileError{Err: errors.New("incomplete PNG predictor row")}
		} else if err != nil {
			return n, err
		}

		row := r.cur[1:]
		prev := r.prev
		bpp := r.bpp
		switch r.cur[0] {
		case 0: // None
		case 1: // Sub
			for i := bpp; i < len(row); i++ {
				row[i] += row[i-bpp]
			}
		case 2: // Up
			for i := range row {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := range row {
				var left int
				if i >= bpp {
					left = int(row[i-bpp])
				}
				row[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := range row {
				var left, upLeft byte
				if i >= bpp {
					left = row[i-bpp]
					upLeft = prev[i-bpp]
				}
				row[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return n, &MalformedFileError{
				Err: fmt.Errorf("invalid PNG predictor type %d", r.cur[0]),
			}
		}

		copy(r.prev, row)
		r.pend = r.prev
	}
	return n, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// tiffReader undoes TIFF predictor 2 for 8-bit components.
type tiffReader struct {
	r    io.Reader
	bpp  int
	row  []byte
	pend []byte
}

func (r *tiffReader) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		if len(r.pend) > 0 {
			m := copy(b[n:], r.pend)
			n += m
			r.pend = r.pend[m:]
			continue
		}

		k, err := io.ReadFull(r.r, r.row)
		if err == io.ErrUnexpectedEOF {
			err = nil
		} else if err != nil {
			return n, err
		}
		row := r.row[:k]
		for i := r.bpp; i < len(row); i++ {
			row[i] += row[i-r.bpp]
		}
		r.pend = row
		if k < len(r.row) {
			// A short final row is passed on as it is.
			m := copy(b[n:], r.pend)
			n += m
			r.pend = r.pend[m:]
			if len(r.pend) == 0 {
				return n, io.EOF
			}
		}
	}
	return n, nil
}

// hexReader decodes ASCIIHexDecode data.
type hexReader struct {
	r    io.Reader
	buf  [256]byte
	hi   int
	have bool
	done bool
}

func (r *hexReader) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) && !r.done {
		m := len(b) - n
		if 2*m > len(r.buf) {
			m = len(r.buf) / 2
		}
		k, err := r.r.Read(r.buf[:m])
		for _, c := range r.buf[:k] {
			if c == '>' {
				r.done = true
				break
			}
			var v int
			switch {
			case c >= '0' && c <= '9':
				v = int(c - '0')
			case c >= 'a' && c <= 'f':
				v = int(c-'a') + 10
			case c >= 'A' && c <= 'F':
				v = int(c-'A') + 10
			case isSpace(c):
				continue
			default:
				return n, &MalformedFileError{
					Err: fmt.Errorf("invalid character %q in ASCIIHex data", c),
				}
			}
			if r.have {
				b[n] = byte(r.hi<<4 | v)
				n++
				r.have = false
			} else {
				r.hi = v
				r.have = true
			}
		}
		if err == io.EOF {
			r.done = true
		} else if err != nil {
			return n, err
		}
	}
	if r.done {
		if r.have {
			if n == len(b) {
				return n, nil
			}
			b[n] = byte(r.hi << 4)
			n++
			r.have = false
		}
		return n, io.EOF
	}
	return n, nil
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}

// runLengthReader decodes RunLengthDecode data.
//
// Each run starts with a length byte n.  For n < 128 the next n+1 bytes
// are copied literally, for n > 128 the next byte is repeated 257-n times,
// and n = 128 marks the end of the data.
type runLengthReader struct {
	r       *bufio.Reader
	literal int
	repeat  int
	value   byte
	done    bool
}

func (r *runLengthReader) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		switch {
		case r.literal > 0:
			k, err := r.r.Read(b[n:min(len(b), n+r.literal)])
			n += k
			r.literal -= k
			if err == io.EOF {
				return n, &MalformedFileError{
					Err: fmt.Errorf("RunLength data: %w", io.ErrUnexpectedEOF),
				}
			} else if err != nil {
				return n, err
			}
			continue
		case r.repeat > 0:
			for r.repeat > 0 && n < len(b) {
				b[n] = r.value
				n++
				r.repeat--
			}
			continue
		case r.done:
			return n, io.EOF
		}

		length, err := r.r.ReadByte()
		if err == io.EOF {
			// A missing end-of-data marker is tolerated.
			r.done = true
			continue
		} else if err != nil {
			return n, err
		}
		switch {
		case length < 128:
			r.literal = int(length) + 1
		case length > 128:
			r.value, err = r.r.ReadByte()
			if err != nil {
				return n, &MalformedFileError{
					Err: fmt.Errorf("RunLength data: %w", io.ErrUnexpectedEOF),
				}
			}
			r.repeat = 257 - int(length)
		default:
			r.done = true
		}
	}
	return n, nil
}
