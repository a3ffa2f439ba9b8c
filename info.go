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
	"time"
)

// PDF 2.0 sections: 14.3

// Info represents a PDF Document Information Dictionary.
//
// All fields in this structure are optional.  The zero value represents
// an empty information dictionary.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Creator gives the name of the application that created the original
	// document, if the document was converted to PDF from another format.
	Creator string

	// Producer gives the name of the application that converted the document,
	// if the document was converted to PDF from another format.
	Producer string

	CreationDate time.Time
	ModDate      time.Time

	// Trapped indicates whether the document has been modified to include
	// trapping information.  If nil, the trapping status is unknown.
	Trapped *bool

	// Custom contains non-standard fields from the Info dictionary.
	Custom map[string]string
}

var infoTextKeys = []Name{
	"Title", "Author", "Subject", "Keywords", "Creator", "Producer",
}

// DecodeInfo converts an Info dictionary into an Info structure.
//
// Malformed dates and entries of unexpected type are ignored.
// If dict is nil, the function returns nil.
func DecodeInfo(dict Dict) *Info {
	if dict == nil {
		return nil
	}

	info := &Info{}
	text := map[Name]*string{
		"Title":    &info.Title,
		"Author":   &info.Author,
		"Subject":  &info.Subject,
		"Keywords": &info.Keywords,
		"Creator":  &info.Creator,
		"Producer": &info.Producer,
	}
	for key, val := range dict {
		switch key {
		case "CreationDate", "ModDate":
			s, ok := val.(String)
			if !ok {
				continue
			}
			t, err := AsDate(s)
			if err != nil {
				continue
			}
			if key == "CreationDate" {
				info.CreationDate = t
			} else {
				info.ModDate = t
			}
		case "Trapped":
			switch dict.GetName(key) {
			case "True", "False":
				trapped := dict.GetName(key) == "True"
				info.Trapped = &trapped
			}
		default:
			s, ok := val.(String)
			if !ok {
				continue
			}
			if dst, isText := text[key]; isText {
				*dst = AsTextString(s)
			} else if len(s) > 0 {
				if info.Custom == nil {
					info.Custom = make(map[string]string)
				}
				info.Custom[string(key)] = AsTextString(s)
			}
		}
	}
	return info
}

// AsDict returns the Info dictionary for the given information.
// Empty fields are omitted.
func (info *Info) AsDict() Dict {
	dict := Dict{}
	values := []string{
		info.Title, info.Author, info.Subject, info.Keywords,
		info.Creator, info.Producer,
	}
	for i, key := range infoTextKeys {
		if values[i] != "" {
			dict[key] = TextString(values[i])
		}
	}
	if !info.CreationDate.IsZero() {
		dict["CreationDate"] = Date(info.CreationDate)
	}
	if !info.ModDate.IsZero() {
		dict["ModDate"] = Date(info.ModDate)
	}
	if info.Trapped != nil {
		if *info.Trapped {
			dict["Trapped"] = Name("True")
		} else {
			dict["Trapped"] = Name("False")
		}
	}
	for key, val := range info.Custom {
		dict[Name(key)] = TextString(val)
	}
	return dict
}

// Embed writes the Info dictionary to w and records it in the trailer.
//
// If all fields are empty, nothing is written and the returned reference
// is 0.
func (info *Info) Embed(w *Writer) (Reference, error) {
	if info == nil {
		return 0, nil
	}
	dict := info.AsDict()
	if len(dict) == 0 {
		return 0, nil
	}
	if info.Trapped != nil && w.Version < V1_3 {
		return 0, &NotSupportedError{
			Feature: "Info Trapped entry in PDF " + w.Version.String(),
		}
	}

	ref := w.Alloc()
	err := w.Put(ref, dict)
	if err != nil {
		return 0, err
	}
	w.Trailer["Info"] = ref
	return ref, nil
}
