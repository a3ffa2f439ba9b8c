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

// Pdfwrite wraps a file into a one-page PDF document, as an embedded file
// attachment.  The output can optionally be encrypted.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfcore"
	"seehuhn.de/go/pdfcore/metadata"
)

func main() {
	versionArg := flag.String("version", "1.7", "PDF version of the output")
	userPasswd := flag.String("user", "", "user password")
	ownerPasswd := flag.String("owner", "", "owner password")
	ask := flag.Bool("ask", false, "read the user password from the terminal")
	title := flag.String("title", "", "document title")
	author := flag.String("author", "", "document author")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input output.pdf\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	version, err := pdf.ParseVersion(*versionArg)
	check(err)

	if *ask {
		fmt.Print("password: ")
		passwd, err := term.ReadPassword(syscall.Stdin)
		fmt.Println("***")
		check(err)
		*userPasswd = string(passwd)
	}

	inName := flag.Arg(0)
	body, err := os.ReadFile(inName)
	check(err)
	stat, err := os.Stat(inName)
	check(err)

	opt := &pdf.WriterOptions{
		Version:       version,
		UserPassword:  *userPasswd,
		OwnerPassword: *ownerPasswd,
	}
	w, err := pdf.Create(flag.Arg(1), opt)
	check(err)

	err = writeDocument(w, filepath.Base(inName), body, stat.ModTime(), *title, *author)
	check(err)

	err = w.Close()
	check(err)
}

var a4 = rect.Rect{URx: 595.276, URy: 841.89}

func writeDocument(w *pdf.Writer, name string, body []byte, modTime time.Time, title, author string) error {
	now := time.Now()

	catalogRef := w.Alloc()
	pagesRef := w.Alloc()
	pageRef := w.Alloc()
	fileRef := w.Alloc()
	specRef := w.Alloc()

	catalog := pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": pagesRef,
		"Names": pdf.Dict{
			"EmbeddedFiles": pdf.Dict{
				"Names": pdf.Array{pdf.String(name), specRef},
			},
		},
	}
	if w.Version >= pdf.V1_4 {
		meta, err := metadata.NewDocument(title, author, now)
		if err != nil {
			return err
		}
		metaRef, err := meta.Embed(w)
		if err != nil {
			return err
		}
		catalog["Metadata"] = metaRef
	}
	err := w.Put(catalogRef, catalog)
	if err != nil {
		return err
	}

	err = w.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{pageRef},
		"Count": pdf.Integer(1),
	})
	if err != nil {
		return err
	}
	err = w.Put(pageRef, pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": pdf.RectArray(a4),
	})
	if err != nil {
		return err
	}

	fileDict := pdf.Dict{
		"Type": pdf.Name("EmbeddedFile"),
		"Params": pdf.Dict{
			"Size":    pdf.Integer(len(body)),
			"ModDate": pdf.Date(modTime),
		},
	}
	err = w.Put(fileRef, pdf.NewStream(fileDict, body))
	if err != nil {
		return err
	}
	err = w.Put(specRef, pdf.Dict{
		"Type": pdf.Name("Filespec"),
		"F":    pdf.String(name),
		"UF":   pdf.TextString(name),
		"EF":   pdf.Dict{"F": fileRef},
	})
	if err != nil {
		return err
	}

	info := &pdf.Info{
		Title:        title,
		Author:       author,
		Producer:     "pdfwrite",
		CreationDate: now,
	}
	_, err = info.Embed(w)
	if err != nil {
		return err
	}

	w.Trailer["Root"] = catalogRef
	return nil
}

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
