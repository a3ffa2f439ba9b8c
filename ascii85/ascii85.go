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

// Package ascii85 implements the ASCII base-85 encoding used by the
// ASCII85Decode filter in PDF files.
//
// Groups of four bytes are encoded as five characters from the range
// '!' to 'u'.  A group of four zero bytes is abbreviated as 'z'.  The
// encoded data is terminated by the end-of-data marker "~>".
package ascii85

import (
	"bytes"
	"errors"
	"io"
)

// LineLength is the number of output columns after which the encoder
// inserts a newline.
const LineLength = 80

var (
	errEndMarker = errors.New("invalid end marker in ASCII85 stream")
	errShortTail = errors.New("unexpected end marker in ASCII85 stream")
	errInvalid   = errors.New("invalid character in ASCII85 stream")
)

// Encode returns the ASCII85 encoding of src, including the end-of-data
// marker.  If src is empty, the result is empty.
func Encode(src []byte) []byte {
	if len(src) == 0 {
		return []byte{}
	}
	buf := &bytes.Buffer{}
	buf.Grow(len(src)*5/4 + len(src)/64 + 8)
	w := NewEncoder(nopCloser{buf})
	_, _ = w.Write(src)
	_ = w.Close()
	return buf.Bytes()
}

// NewEncoder returns a writer which ASCII85-encodes all data written to
// it and writes the result to w.  Close must be called to write the final
// partial group and the end-of-data marker; it also closes w.
func NewEncoder(w io.WriteCloser) io.WriteCloser {
	return &encoder{
		w:   w,
		buf: make([]byte, 0, 512),
	}
}

// NewDecoder returns a reader which decodes ASCII85 data read from r.
// White space in the input is ignored.  Reading stops at the end-of-data
// marker "~>".
func NewDecoder(r io.Reader) io.Reader {
	return &decoder{r: r}
}

type encoder struct {
	w       io.WriteCloser
	buf     []byte
	v       uint32
	k       int
	col     int
	written bool
}

func (w *encoder) Write(p []byte) (int, error) {
	for i, b := range p {
		w.written = true
		w.v = w.v<<8 | uint32(b)
		w.k++
		if w.k < 4 {
			continue
		}

		if w.v == 0 {
			w.buf = append(w.buf, 'z')
			w.col++
		} else {
			var c [5]byte
			encodeGroup(&c, w.v)
			w.buf = append(w.buf, c[:]...)
			w.col += 5
		}
		if w.col >= LineLength {
			w.buf = append(w.buf, '\n')
			w.col = 0
		}
		w.v = 0
		w.k = 0

		if len(w.buf) > cap(w.buf)-8 {
			err := w.flush()
			if err != nil {
				return i, err
			}
		}
	}
	return len(p), nil
}

func (w *encoder) Close() error {
	if w.k != 0 {
		var c [5]byte
		encodeGroup(&c, w.v<<((4-w.k)*8))
		w.buf = append(w.buf, c[:w.k+1]...)
		w.v = 0
		w.k = 0
	}
	if w.written {
		w.buf = append(w.buf, '~', '>')
	}
	err := w.flush()
	if err != nil {
		return err
	}
	return w.w.Close()
}

func (w *encoder) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.w.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}

// encodeGroup writes the five base-85 digits of v to c.
func encodeGroup(c *[5]byte, v uint32) {
	for i := 4; i >= 0; i-- {
		c[i] = byte(v%85) + '!'
		v /= 85
	}
}

type decoder struct {
	r io.Reader

	// err is returned by all further calls to Read.  readErr is the
	// error from the underlying reader, which is only reported once the
	// buffered input has been used up.
	err     error
	readErr error

	in       [512]byte
	pos, end int

	out     [4]byte
	pending []byte

	v     uint32
	k     int
	isEnd bool
}

func (r *decoder) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	if len(r.pending) > 0 {
		n = copy(p, r.pending)
		r.pending = r.pending[n:]
	}
	if r.err != nil {
		return n, r.err
	}

	for n < len(p) {
		c, ok := r.nextByte()
		if !ok {
			return n, r.err
		}

		// '~' can only be the start of the end marker "~>"
		if r.isEnd {
			if c == '>' {
				r.err = io.EOF
			} else {
				r.err = errEndMarker
			}
			return n, r.err
		}

		switch {
		case isSpace(c):
			continue
		case c >= '!' && c < '!'+85:
			r.v = r.v*85 + uint32(c-'!')
			r.k++
		case c == 'z' && r.k == 0:
			r.k = 5
		case c == '~':
			switch r.k {
			case 0:
				// pass
			case 1:
				r.err = errShortTail
				return n, r.err
			default:
				count := r.k - 1
				for i := r.k; i < 5; i++ {
					r.v = r.v*85 + 84
				}
				n += r.emit(p[n:], count)
			}
			r.isEnd = true
			continue
		default:
			r.err = errInvalid
			return n, r.err
		}

		if r.k == 5 {
			n += r.emit(p[n:], 4)
		}
	}
	return n, nil
}

// emit stores the first count bytes of the current group in p.  Bytes which
// do not fit into p are kept for the next call to Read.
func (r *decoder) emit(p []byte, count int) int {
	v := r.v
	r.out[0] = byte(v >> 24)
	r.out[1] = byte(v >> 16)
	r.out[2] = byte(v >> 8)
	r.out[3] = byte(v)
	r.v = 0
	r.k = 0

	l := copy(p, r.out[:count])
	if l < count {
		r.pending = r.out[l:count]
	}
	return l
}

func (r *decoder) nextByte() (byte, bool) {
	for r.pos == r.end {
		if r.readErr != nil {
			r.err = r.readErr
			return 0, false
		}
		r.end, r.readErr = r.r.Read(r.in[:])
		r.pos = 0
		if r.readErr == io.EOF {
			r.readErr = io.ErrUnexpectedEOF
		}
	}
	c := r.in[r.pos]
	r.pos++
	return c, true
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
