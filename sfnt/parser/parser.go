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

// Package parser implements a bounds-checked reader for the binary tables
// found in sfnt font files.
//
// All multi-byte values are read in big-endian byte order.  Every read
// checks the remaining length of the table first; a read past the end of
// the table returns an error and leaves the read position unchanged.
package parser

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is wrapped by all errors caused by reads or seeks beyond
// the end of the table data.
var ErrOutOfBounds = errors.New("read past end of table")

// Cursor reads binary data from an in-memory font table.
type Cursor struct {
	tableName string
	data      []byte
	pos       int
	lastRead  int
}

// New allocates a new Cursor for the given table data.  The table name is
// only used in error messages.
func New(tableName string, data []byte) *Cursor {
	return &Cursor{
		tableName: tableName,
		data:      data,
	}
}

// Size returns the total length of the table data.
func (c *Cursor) Size() int {
	return len(c.data)
}

// Pos returns the current reading position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes between the current position and
// the end of the table.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Seek changes the reading position.  Positions from 0 to Size() inclusive
// are valid.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		c.lastRead = pos
		return c.Error("seek to %d: %w", pos, ErrOutOfBounds)
	}
	c.pos = pos
	return nil
}

// Skip advances the reading position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		c.lastRead = c.pos
		return c.Error("skip %d bytes: %w", n, ErrOutOfBounds)
	}
	c.pos += n
	return nil
}

// ReadBytes returns the next n bytes and advances the reading position.
// The returned slice shares memory with the table data and must not be
// modified.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	c.lastRead = c.pos
	if n < 0 || n > c.Remaining() {
		return nil, c.Error("read %d bytes: %w", n, ErrOutOfBounds)
	}
	res := c.data[c.pos : c.pos+n]
	c.pos += n
	return res, nil
}

// ReadUint8 reads a single uint8 value from the current position.
func (c *Cursor) ReadUint8() (uint8, error) {
	buf, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a single uint16 value from the current position.
func (c *Cursor) ReadUint16() (uint16, error) {
	buf, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// ReadInt16 reads a single int16 value from the current position.
func (c *Cursor) ReadInt16() (int16, error) {
	val, err := c.ReadUint16()
	return int16(val), err
}

// ReadUint32 reads a single uint32 value from the current position.
func (c *Cursor) ReadUint32() (uint32, error) {
	buf, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

// ReadInt32 reads a single int32 value from the current position.
func (c *Cursor) ReadInt32() (int32, error) {
	val, err := c.ReadUint32()
	return int32(val), err
}

// ReadUint16Slice reads a count followed by that many uint16 values.
//
// If the table ends before all values are read, the values read so far
// are returned together with the error.
func (c *Cursor) ReadUint16Slice() ([]uint16, error) {
	n, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	return c.ReadUint16s(int(n))
}

// ReadUint16s reads n consecutive uint16 values.
//
// If the table ends before all values are read, the values read so far
// are returned together with the error.
func (c *Cursor) ReadUint16s(n int) ([]uint16, error) {
	avail := c.Remaining() / 2
	k := n
	if k > avail {
		k = avail
	}
	res := make([]uint16, k)
	for i := range res {
		res[i], _ = c.ReadUint16()
	}
	if k < n {
		c.lastRead = c.pos
		return res, c.Error("read %d values: %w", n, ErrOutOfBounds)
	}
	return res, nil
}

// Sub returns a new Cursor for the table data starting at offset.  The
// position of c is not changed.
func (c *Cursor) Sub(offset int) (*Cursor, error) {
	if offset < 0 || offset > len(c.data) {
		c.lastRead = offset
		return nil, c.Error("sub-table at %d: %w", offset, ErrOutOfBounds)
	}
	return &Cursor{
		tableName: c.tableName,
		data:      c.data[offset:],
	}, nil
}

// Error formats an error message which includes the table name and the
// position of the last read.
func (c *Cursor) Error(format string, a ...interface{}) error {
	tableName := c.tableName
	if tableName == "" {
		tableName = "header"
	}
	a = append([]interface{}{tableName, c.lastRead}, a...)
	return fmt.Errorf("%s%+d: "+format, a...)
}
