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

// Package validator gates reads from a partially downloaded file.
//
// A Validator wraps a random access byte source together with a
// caller-supplied predicate which reports which byte ranges are
// available.  Reads from ranges which are not yet available fail softly:
// a sticky flag is set and, if download hints are installed, the missing
// range is requested.  The caller is expected to retry once more data
// has arrived.
//
// A Validator is not safe for concurrent use.
package validator

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'pdfcore.validator'
func tracer() tracing.Trace {
	return tracing.Select("pdfcore.validator")
}

// DefaultBlockSize is the block size used for aligning download hints,
// if Validator.BlockSize is zero.
const DefaultBlockSize = 512

var (
	// ErrDataNotAvailable is returned by ReadAt if the requested range
	// has not been downloaded yet.
	ErrDataNotAvailable = errors.New("data not available yet")

	// ErrRead is returned by ReadAt if the underlying source failed.
	ErrRead = errors.New("read error")

	errInvalidRange = errors.New("invalid range")
)

// Source is the random access byte source wrapped by a Validator.
// [bytes.Reader] and [io.SectionReader] implement this interface.
type Source interface {
	io.ReaderAt
	Size() int64
}

// FileAvail reports which parts of a file are available.
type FileAvail interface {
	IsDataAvail(offset, size int64) bool
}

// DownloadHints receives requests for missing parts of a file.
type DownloadHints interface {
	AddSegment(offset, size int64)
}

// Validator checks the availability of data before reading it from a
// Source.
type Validator struct {
	// BlockSize is the granularity of download hints.  Requested ranges
	// are extended to multiples of BlockSize.  It is also used as the
	// read-ahead in CheckDataRangeAndRequestIfUnavailable.  If BlockSize is
	// zero, DefaultBlockSize is used.
	BlockSize int64

	src   Source
	avail FileAvail
	hints DownloadHints

	readError          bool
	hasUnavailableData bool
	wholeFileAvailable bool

	saved []flags
}

type flags struct {
	readError          bool
	hasUnavailableData bool
}

// New returns a Validator for src.  If avail is nil, all data is assumed
// to be available.
func New(src Source, avail FileAvail) *Validator {
	return &Validator{
		src:   src,
		avail: avail,
	}
}

// SetDownloadHints installs the receiver for download requests.
// Use nil to stop sending requests.
func (v *Validator) SetDownloadHints(h DownloadHints) {
	v.hints = h
}

// Size returns the total size of the underlying source.
func (v *Validator) Size() int64 {
	return v.src.Size()
}

// ReadError reports whether a read from the underlying source has failed.
func (v *Validator) ReadError() bool {
	return v.readError
}

// HasUnavailableData reports whether some requested data was not
// available.
func (v *Validator) HasUnavailableData() bool {
	return v.hasUnavailableData
}

// HasProblems reports whether either of the two error flags is set.
func (v *Validator) HasProblems() bool {
	return v.readError || v.hasUnavailableData
}

// ResetErrors clears both error flags.
func (v *Validator) ResetErrors() {
	v.readError = false
	v.hasUnavailableData = false
}

// ReadBlockAtOffset fills buf with data from the source, starting at
// offset.
//
// If the range lies outside the source, false is returned and no flag is
// set.  If the range is not yet available, the HasUnavailableData flag is
// set, a download hint is sent, and false is returned.  If the underlying
// read fails, the ReadError flag is set and false is returned.
func (v *Validator) ReadBlockAtOffset(buf []byte, offset int64) bool {
	return v.readBlock(buf, offset) == nil
}

func (v *Validator) readBlock(buf []byte, offset int64) error {
	size := int64(len(buf))
	if offset < 0 || size > math.MaxInt64-offset || offset+size > v.src.Size() {
		return errInvalidRange
	}

	if !v.isDataRangeAvailable(offset, size) {
		v.scheduleDownload(offset, size)
		return ErrDataNotAvailable
	}

	n, err := v.src.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	v.readError = true
	tracer().Errorf("read of %d bytes at %d failed: %v", size, offset, err)
	return fmt.Errorf("%w: %w", ErrRead, err)
}

// ReadAt implements the [io.ReaderAt] interface.
//
// Reads which extend past the end of the source return the available
// bytes together with io.EOF.  If the data is not yet available,
// ErrDataNotAvailable is returned.  Failures of the underlying source are
// reported as errors wrapping ErrRead.
func (v *Validator) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d: %w", off, errInvalidRange)
	}
	size := v.src.Size()
	if off >= size {
		return 0, io.EOF
	}

	n := len(p)
	if int64(n) > size-off {
		n = int(size - off)
	}
	err := v.readBlock(p[:n], off)
	if err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// CheckDataRangeAndRequestIfUnavailable checks whether the given range,
// extended by one block of read-ahead, is available.  If not, the
// HasUnavailableData flag is set and a download hint is sent.
//
// Ranges starting at or beyond the end of the source are reported as
// available.
func (v *Validator) CheckDataRangeAndRequestIfUnavailable(offset, size int64) bool {
	fileSize := v.src.Size()
	if offset >= fileSize {
		return true
	}
	if offset < 0 || size < 0 {
		return false
	}

	end := offset
	for _, delta := range []int64{size, v.blockSize()} {
		if delta > math.MaxInt64-end {
			return false
		}
		end += delta
	}
	end = min(end, fileSize)

	if v.isDataRangeAvailable(offset, end-offset) {
		return true
	}
	v.scheduleDownload(offset, end-offset)
	return false
}

// IsWholeFileAvailable reports whether the complete source is available.
// Once the whole file has been seen to be available, this is not checked
// again.
func (v *Validator) IsWholeFileAvailable() bool {
	if !v.wholeFileAvailable && v.isDataRangeAvailable(0, v.src.Size()) {
		v.wholeFileAvailable = true
	}
	return v.wholeFileAvailable
}

// CheckWholeFileAndRequestIfUnavailable checks whether the complete
// source is available.  If not, the HasUnavailableData flag is set and
// the whole file is requested.
func (v *Validator) CheckWholeFileAndRequestIfUnavailable() bool {
	if v.IsWholeFileAvailable() {
		return true
	}
	v.scheduleDownload(0, v.src.Size())
	return false
}

func (v *Validator) isDataRangeAvailable(offset, size int64) bool {
	return v.wholeFileAvailable || v.avail == nil || v.avail.IsDataAvail(offset, size)
}

func (v *Validator) scheduleDownload(offset, size int64) {
	v.hasUnavailableData = true
	if v.hints == nil || size <= 0 {
		return
	}

	start := v.alignDown(offset)
	end := v.src.Size()
	if size <= math.MaxInt64-offset {
		end = min(end, v.alignUp(offset+size))
	}
	if end <= start {
		return
	}
	tracer().Debugf("requesting %d bytes at %d", end-start, start)
	v.hints.AddSegment(start, end-start)
}

func (v *Validator) blockSize() int64 {
	if v.BlockSize > 0 {
		return v.BlockSize
	}
	return DefaultBlockSize
}

func (v *Validator) alignDown(offset int64) int64 {
	if offset <= 0 {
		return 0
	}
	return offset - offset%v.blockSize()
}

// alignUp always adds a block, even if offset is already aligned.
func (v *Validator) alignUp(offset int64) int64 {
	down := v.alignDown(offset)
	if down > math.MaxInt64-v.blockSize() {
		return math.MaxInt64
	}
	return down + v.blockSize()
}
