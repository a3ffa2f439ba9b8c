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

// Package pdf implements the PDF object model together with the pipeline
// used to write objects and streams to a PDF file.
//
// The following types implement the native PDF object types.
// All of these implement the [Object] interface:
//
//	Array
//	Bool
//	Dict
//	Integer
//	Name
//	Null
//	Real
//	Reference
//	*Stream
//	String
//
// Streams keep their data either in memory or as a region of an
// [io.ReaderAt].  A [StreamAcc] loads the data on demand, optionally
// through a [seehuhn.de/go/pdfcore/validator.Validator] which tracks
// which parts of a progressively downloaded file are available.
//
// A [Writer] can be used to write objects to a new PDF file:
//
//	w, err := pdf.NewWriter(out, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ref := w.Alloc()
//	err = w.Put(ref, pdf.Dict{"Type": pdf.Name("Catalog"), ...})
//	...
//	w.Trailer["Root"] = ref
//
//	err = w.Close()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// When a password or permissions are given in the [WriterOptions], all
// strings and streams in the file are encrypted using the standard
// security handler.
package pdf

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'pdfcore.pdf'
func tracer() tracing.Trace {
	return tracing.Select("pdfcore.pdf")
}
