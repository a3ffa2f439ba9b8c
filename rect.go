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
	"errors"
	"math"

	"seehuhn.de/go/geom/rect"
)

var errNoRectangle = errors.New("not a PDF rectangle")

// RectArray returns the PDF array for a rectangle.
// Coordinates are rounded to two decimal places, and whole numbers are
// written as integers.
func RectArray(r rect.Rect) Array {
	res := make(Array, 0, 4)
	for _, x := range []float64{r.LLx, r.LLy, r.URx, r.URy} {
		x = math.Round(100*x) / 100
		if x == math.Trunc(x) && math.Abs(x) < 1<<31 {
			res = append(res, Integer(x))
		} else {
			res = append(res, Real(x))
		}
	}
	return res
}

// AsRect converts an array of four numbers into a rectangle.
// The corners are normalised so that the lower left corner comes first.
func AsRect(a Array) (rect.Rect, error) {
	if len(a) != 4 {
		return rect.Rect{}, errNoRectangle
	}
	var values [4]float64
	for i, obj := range a {
		switch x := obj.(type) {
		case Integer:
			values[i] = float64(x)
		case Real:
			values[i] = float64(x)
		default:
			return rect.Rect{}, errNoRectangle
		}
	}
	return rect.Rect{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}
