// seehuhn.de/go/redact - a document redaction game engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package mask

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in normalized document space.
// The origin is the top-left corner of the document, and both axes run
// from 0 to 1. A Rect may have zero area.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that all fields are finite and that the size is
// non-negative.
func (r Rect) Validate() error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %v", ErrInvalidRect, r)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative size in %v", ErrInvalidRect, r)
	}
	return nil
}

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies in the rectangle.
// All four edges are inclusive, so a point on an edge shared by two
// adjacent rectangles is contained in both.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// PixelBounds converts the rectangle into the half-open pixel range
// [x0, x1) × [y0, y1) of a raster with the given size. The left and top
// edges are rounded down, the right and bottom edges are rounded up, and
// the result is clipped to the raster.
func (r Rect) PixelBounds(width, height int) (x0, y0, x1, y1 int) {
	w := float64(width)
	h := float64(height)
	x0 = min(max(int(math.Floor(r.X*w)), 0), width)
	y0 = min(max(int(math.Floor(r.Y*h)), 0), height)
	x1 = min(int(math.Ceil((r.X+r.Width)*w)), width)
	y1 = min(int(math.Ceil((r.Y+r.Height)*h)), height)
	if r.IsEmpty() || x1 < x0 || y1 < y0 {
		return x0, y0, x0, y0
	}
	return x0, y0, x1, y1
}

// FromPixels builds a normalized rectangle from a pixel rectangle on a
// document of the given natural size. Negative sizes, as produced by
// dragging up or to the left, are normalized.
func FromPixels(x, y, w, h float64, docWidth, docHeight int) Rect {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	dw := float64(docWidth)
	dh := float64(docHeight)
	return Rect{X: x / dw, Y: y / dh, Width: w / dw, Height: h / dh}
}
