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

// Package metadata reads and writes XMP metadata streams.
//
// Metadata streams are written without compression and, as far as the
// security handler permits, without encryption, so that applications which
// do not understand PDF can find the XMP packet in the file.
package metadata

import (
	"bytes"
	"errors"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfcore"
)

// PDF 2.0 sections: 14.3

var errNotMetadata = errors.New("not an XML metadata stream")

// Stream represents an XMP metadata stream.
//
// The metadata may either refer to a PDF document as a whole, or to
// individual objects within the document.
type Stream struct {
	Data *xmp.Packet
}

// NewDocument returns an XMP packet with the title, the author and the
// creation date of a document.
func NewDocument(title, author string, date time.Time) (*Stream, error) {
	dc := &xmp.DublinCore{}
	if title != "" {
		dc.Title.Set(language.Und, title)
	}
	if author != "" {
		dc.Creator.Append(xmp.NewProperName(author))
	}
	info := &xmp.Basic{}
	info.CreateDate = xmp.NewDate(date)
	info.ModifyDate = xmp.NewDate(date)

	packet := xmp.NewPacket()
	err := packet.Set(dc, info)
	if err != nil {
		return nil, err
	}
	return &Stream{Data: packet}, nil
}

// Read decodes an XMP metadata stream.
func Read(s *pdf.Stream) (*Stream, error) {
	if !s.IsMetadata() {
		return nil, errNotMetadata
	}
	r, err := pdf.NewStreamAcc(s).Reader()
	if err != nil {
		return nil, err
	}
	packet, err := xmp.Read(r)
	if err != nil {
		return nil, err
	}
	return &Stream{Data: packet}, nil
}

// AsStream returns the metadata as a PDF stream object.
func (s *Stream) AsStream(opt *xmp.PacketOptions) (*pdf.Stream, error) {
	buf := &bytes.Buffer{}
	err := s.Data.Write(buf, opt)
	if err != nil {
		return nil, err
	}

	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	return pdf.NewStream(dict, buf.Bytes()), nil
}

// Embed writes the metadata stream to w, as a new indirect object.
func (s *Stream) Embed(w *pdf.Writer) (pdf.Reference, error) {
	if w.Version < pdf.V1_4 {
		return 0, &pdf.NotSupportedError{
			Feature: "XMP metadata streams in PDF " + w.Version.String(),
		}
	}

	stm, err := s.AsStream(nil)
	if err != nil {
		return 0, err
	}
	ref := w.Alloc()
	err = w.Put(ref, stm)
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// Equal reports whether s and other represent the same XMP metadata.
func (s *Stream) Equal(other *Stream) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.Data.Equal(other.Data)
}
