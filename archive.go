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
	"fmt"
	"io"
)

// Archive is an append-only byte sink which keeps track of the number of
// bytes written.  Data which has been written to an archive cannot be taken
// back; if a write fails, the output is left incomplete.
type Archive struct {
	w   io.Writer
	pos int64
}

// NewArchive returns an archive which writes to w.
func NewArchive(w io.Writer) *Archive {
	return &Archive{w: w}
}

// Write implements the [io.Writer] interface.
func (a *Archive) Write(p []byte) (int, error) {
	n, err := a.w.Write(p)
	a.pos += int64(n)
	return n, err
}

// WriteString appends s to the archive.
func (a *Archive) WriteString(s string) error {
	_, err := io.WriteString(a, s)
	return err
}

// Printf appends formatted output to the archive.
func (a *Archive) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(a, format, args...)
	return err
}

// Pos returns the number of bytes written so far.
func (a *Archive) Pos() int64 {
	return a.pos
}
