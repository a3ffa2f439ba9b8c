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

package validator

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

const testFileSize = 10000

// --- Test Suite Preparation ------------------------------------------------

type ValidatorTestEnviron struct {
	suite.Suite
	data  []byte
	avail *byteAvail
	hints *hintRecorder
	v     *Validator
}

// listen for 'go test' command --> run test methods
func TestValidator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pdfcore.validator")
	defer teardown()
	suite.Run(t, new(ValidatorTestEnviron))
}

// run once, before test suite methods
func (env *ValidatorTestEnviron) SetupSuite() {
	tracing.Select("pdfcore.validator").SetTraceLevel(tracing.LevelError)
	env.data = make([]byte, testFileSize)
	for i := range env.data {
		env.data[i] = byte(i % 251)
	}
}

// run before each test method
func (env *ValidatorTestEnviron) SetupTest() {
	env.avail = &byteAvail{ok: make([]bool, testFileSize)}
	env.hints = &hintRecorder{}
	env.v = New(bytes.NewReader(env.data), env.avail)
	env.v.SetDownloadHints(env.hints)
}

// --- Helpers ---------------------------------------------------------------

// byteAvail tracks availability for every byte of the file.
type byteAvail struct {
	ok []bool
}

func (a *byteAvail) IsDataAvail(offset, size int64) bool {
	if offset < 0 || size < 0 || offset+size > int64(len(a.ok)) {
		return false
	}
	for _, ok := range a.ok[offset : offset+size] {
		if !ok {
			return false
		}
	}
	return true
}

func (a *byteAvail) set(offset, size int64, ok bool) {
	for i := offset; i < offset+size; i++ {
		a.ok[i] = ok
	}
}

type segment struct {
	offset, size int64
}

type hintRecorder struct {
	segments []segment
}

func (h *hintRecorder) AddSegment(offset, size int64) {
	h.segments = append(h.segments, segment{offset, size})
}

type failingSource struct{}

var errDisk = errors.New("disk on fire")

func (failingSource) ReadAt([]byte, int64) (int, error) { return 0, errDisk }
func (failingSource) Size() int64                      { return testFileSize }

// --- Tests -----------------------------------------------------------------

func (env *ValidatorTestEnviron) TestUnavailableThenAvailable() {
	buf := make([]byte, 100)
	env.False(env.v.ReadBlockAtOffset(buf, 5000))
	env.True(env.v.HasUnavailableData(), "expected unavailable data")
	env.False(env.v.ReadError(), "unexpected read error")
	env.Equal([]segment{{4608, 512}}, env.hints.segments)

	env.avail.set(5000, 100, true)
	env.v.ResetErrors()
	env.Require().True(env.v.ReadBlockAtOffset(buf, 5000))
	env.False(env.v.HasProblems())
	env.Equal(env.data[5000:5100], buf)
	env.Len(env.hints.segments, 1, "no new hints expected")
}

func (env *ValidatorTestEnviron) TestInvalidRanges() {
	buf := make([]byte, 10)
	offsets := []int64{math.MaxInt64 - 5, -1, testFileSize - 5, testFileSize}
	for _, offset := range offsets {
		env.False(env.v.ReadBlockAtOffset(buf, offset), "offset %d", offset)
		env.False(env.v.ReadError(), "offset %d", offset)
		env.False(env.v.HasUnavailableData(), "offset %d", offset)
	}
	env.Empty(env.hints.segments)

	env.avail.set(0, testFileSize, true)
	env.True(env.v.ReadBlockAtOffset(buf, testFileSize-10))
	env.True(env.v.ReadBlockAtOffset(nil, testFileSize))
}

func (env *ValidatorTestEnviron) TestReadError() {
	v := New(failingSource{}, nil)
	v.SetDownloadHints(env.hints)
	env.False(v.ReadBlockAtOffset(make([]byte, 4), 0))
	env.True(v.ReadError())
	env.False(v.HasUnavailableData())
	env.Empty(env.hints.segments)

	_, err := v.ReadAt(make([]byte, 4), 0)
	env.ErrorIs(err, ErrRead)
	env.ErrorIs(err, errDisk)
}

func (env *ValidatorTestEnviron) TestSession() {
	v := env.v
	env.False(v.ReadBlockAtOffset(make([]byte, 1), 0))
	env.Require().True(v.HasUnavailableData())

	s := v.StartSession()
	env.False(v.HasProblems(), "flags must be cleared inside a session")

	inner := v.StartSession()
	env.False(v.ReadBlockAtOffset(make([]byte, 1), 700))
	env.True(v.HasUnavailableData())
	inner.End()
	env.True(v.HasUnavailableData(), "inner problems must reach the outer session")
	env.False(v.ReadError())

	v.ResetErrors()
	s.End()
	env.True(v.HasUnavailableData(), "flags from before the session must be restored")
	env.False(v.ReadError())

	s.End()
	inner.End()
	env.Empty(v.saved)
}

func (env *ValidatorTestEnviron) TestSessionMerge() {
	v := New(failingSource{}, nil)
	s := v.StartSession()
	v.ReadBlockAtOffset(make([]byte, 1), 0)
	env.True(v.ReadError())
	s.End()
	env.True(v.ReadError())
	env.False(v.HasUnavailableData())
}

func (env *ValidatorTestEnviron) TestSessionOrder() {
	outer := env.v.StartSession()
	inner := env.v.StartSession()
	env.Panics(func() { outer.End() })
	inner.End()
	outer.End()
}

func (env *ValidatorTestEnviron) TestRun() {
	v := env.v
	errTest := errors.New("test")
	err := v.Run(func() error {
		v.ReadBlockAtOffset(make([]byte, 1), 0)
		return errTest
	})
	env.ErrorIs(err, errTest)
	env.Empty(v.saved)
	env.True(v.HasUnavailableData())

	v.ResetErrors()
	env.Panics(func() {
		_ = v.Run(func() error {
			panic("boom")
		})
	})
	env.Empty(v.saved, "session must end when fn panics")
}

func (env *ValidatorTestEnviron) TestRunUnendedSession() {
	v := env.v
	env.PanicsWithValue("boom", func() {
		_ = v.Run(func() error {
			v.StartSession()
			v.ReadBlockAtOffset(make([]byte, 1), 0)
			panic("boom")
		})
	})
	env.Empty(v.saved)
	env.True(v.HasUnavailableData(), "problems of the inner session are lost")

	v.ResetErrors()
	err := v.Run(func() error {
		v.StartSession()
		v.StartSession()
		return nil
	})
	env.NoError(err)
	env.Empty(v.saved)
	env.False(v.HasProblems())
}

func (env *ValidatorTestEnviron) TestCheckDataRange() {
	v := env.v
	env.True(v.CheckDataRangeAndRequestIfUnavailable(testFileSize, 10))
	env.True(v.CheckDataRangeAndRequestIfUnavailable(testFileSize+100, 10))
	env.False(v.HasProblems())
	env.Empty(env.hints.segments)

	env.False(v.CheckDataRangeAndRequestIfUnavailable(0, 100))
	env.True(v.HasUnavailableData())
	env.Equal([]segment{{0, 1024}}, env.hints.segments)

	env.hints.segments = nil
	env.False(v.CheckDataRangeAndRequestIfUnavailable(9900, 50))
	env.Equal([]segment{{9728, 272}}, env.hints.segments)

	// the read-ahead must be available, too
	v.ResetErrors()
	env.avail.set(0, 100, true)
	env.False(v.CheckDataRangeAndRequestIfUnavailable(0, 100))
	env.avail.set(0, 612, true)
	env.True(v.CheckDataRangeAndRequestIfUnavailable(0, 100))

	env.False(v.CheckDataRangeAndRequestIfUnavailable(10, math.MaxInt64))
}

func (env *ValidatorTestEnviron) TestWholeFile() {
	v := env.v
	env.False(v.IsWholeFileAvailable())
	env.False(v.HasUnavailableData(), "IsWholeFileAvailable must not set flags")
	env.False(v.CheckWholeFileAndRequestIfUnavailable())
	env.True(v.HasUnavailableData())
	env.Equal([]segment{{0, testFileSize}}, env.hints.segments)

	env.avail.set(0, testFileSize, true)
	env.True(v.CheckWholeFileAndRequestIfUnavailable())

	// once the whole file was available, it stays available
	env.avail.set(0, testFileSize, false)
	env.True(v.IsWholeFileAvailable())
	env.True(v.ReadBlockAtOffset(make([]byte, 10), 100))
}

func (env *ValidatorTestEnviron) TestBlockSize() {
	env.v.BlockSize = 1024
	env.False(env.v.ReadBlockAtOffset(make([]byte, 100), 5000))
	env.Equal([]segment{{4096, 1024}}, env.hints.segments)
}

func (env *ValidatorTestEnviron) TestNoHints() {
	env.v.SetDownloadHints(nil)
	env.False(env.v.ReadBlockAtOffset(make([]byte, 100), 5000))
	env.True(env.v.HasUnavailableData())
	env.Empty(env.hints.segments)
}

func (env *ValidatorTestEnviron) TestReadAt() {
	v := env.v
	buf := make([]byte, 20)
	_, err := v.ReadAt(buf, 100)
	env.ErrorIs(err, ErrDataNotAvailable)

	env.avail.set(0, testFileSize, true)
	n, err := v.ReadAt(buf, 100)
	env.NoError(err)
	env.Equal(20, n)
	env.Equal(env.data[100:120], buf)

	n, err = v.ReadAt(buf, testFileSize-5)
	env.Equal(io.EOF, err)
	env.Equal(5, n)
	env.Equal(env.data[testFileSize-5:], buf[:5])

	_, err = v.ReadAt(buf, testFileSize)
	env.Equal(io.EOF, err)

	// a Validator can be used as the backing store of an io.SectionReader
	r := io.NewSectionReader(v, 200, 10)
	all, err := io.ReadAll(r)
	env.NoError(err)
	env.Equal(env.data[200:210], all)
}

func TestNilAvail(t *testing.T) {
	v := New(bytes.NewReader([]byte("hello")), nil)
	buf := make([]byte, 5)
	if !v.ReadBlockAtOffset(buf, 0) {
		t.Fatal("read failed")
	}
	if string(buf) != "hello" {
		t.Errorf("wrong data %q", buf)
	}
	if !v.IsWholeFileAvailable() {
		t.Error("whole file not available")
	}
}
