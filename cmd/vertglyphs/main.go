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

// Vertglyphs lists the vertical glyph substitutions of a TrueType or
// OpenType font.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/midbel/hexdump"
	"github.com/pterm/pterm"

	"seehuhn.de/go/pdfcore/sfnt"
	"seehuhn.de/go/pdfcore/sfnt/opentype/gtab"
)

func main() {
	dump := flag.Bool("dump", false, "show a hex dump of the GSUB table")
	text := flag.String("text", "", "show the horizontal and vertical glyphs for the given text")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] font.ttf\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fd, err := os.Open(flag.Arg(0))
	check(err)
	defer fd.Close()

	font, err := sfnt.Read(fd)
	check(err)

	gsub := font.GSUB()
	if *dump {
		body, ok := font.Tables["GSUB"]
		if !ok {
			pterm.Error.Println("font has no GSUB table")
			os.Exit(1)
		}
		fmt.Println(hexdump.Dump(body))
		return
	}

	if *text != "" {
		data := [][]string{{"char", "horizontal", "vertical"}}
		for _, r := range *text {
			data = append(data, []string{
				string(r),
				strconv.Itoa(int(font.GlyphIndex(r, false))),
				strconv.Itoa(int(font.GlyphIndex(r, true))),
			})
		}
		check(render(data))
		return
	}

	features := gsub.VerticalFeatures()
	if len(features) == 0 {
		pterm.Info.Println("no vertical features")
		return
	}
	all := gsub.Features()
	for _, idx := range features {
		pterm.Printf("feature %d: %s\n", idx, all[idx])
	}

	pairs := gsub.VerticalPairs(font.NumGlyphs)
	check(render(pairRows(pairs)))
	pterm.Printf("%d glyphs with vertical substitutes\n", len(pairs))
}

// render prints data as a table, with the first row as the header.
func render(data [][]string) error {
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// pairRows returns the table rows for a list of vertical substitutions.
func pairRows(pairs []gtab.Pair) [][]string {
	data := [][]string{{"glyph", "vertical"}}
	for _, p := range pairs {
		data = append(data, []string{
			strconv.Itoa(int(p.From)),
			strconv.Itoa(int(p.To)),
		})
	}
	return data
}

func check(err error) {
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
