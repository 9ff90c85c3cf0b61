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

package raster

import (
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/redact/mask"
)

// Coverage is an off-screen alpha raster at the natural resolution of a
// document. It records which document pixels the player has painted over.
//
// Points passed to Coverage are in normalized document space, with both
// axes running from 0 to 1.
//
// Shapes are combined by taking the maximum alpha value, so overlapping
// strokes never cancel.
type Coverage struct {
	img   *image.Alpha
	brush Brush

	r *Rasteriser
	o outline
}

// New allocates a cleared coverage raster of the given size.
// Non-positive sizes give an empty raster, on which painting has no effect.
func New(width, height int, brush Brush) *Coverage {
	c := &Coverage{
		brush: brush,
		r:     NewRasteriser(rect.Rect{}),
	}
	c.o.flatness = c.r.Flatness
	c.Resize(width, height)
	return c
}

// Width returns the raster width in pixels.
func (c *Coverage) Width() int {
	return c.img.Rect.Dx()
}

// Height returns the raster height in pixels.
func (c *Coverage) Height() int {
	return c.img.Rect.Dy()
}

// Brush returns the marker used for painting.
func (c *Coverage) Brush() Brush {
	return c.brush
}

// Resize changes the raster size. The raster is cleared.
func (c *Coverage) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	if c.img != nil && c.Width() == width && c.Height() == height {
		c.Clear()
		return
	}
	c.img = image.NewAlpha(image.Rect(0, 0, width, height))
	c.r.Clip = rect.Rect{URx: float64(width), URy: float64(height)}
}

// Clear resets all pixels to unpainted.
func (c *Coverage) Clear() {
	clear(c.img.Pix)
}

// Image returns the underlying alpha image. The image is owned by c and
// changes when c is painted.
func (c *Coverage) Image() *image.Alpha {
	return c.img
}

// IsPainted reports whether the pixel (x, y) has non-zero alpha.
// Pixels outside the raster are never painted.
func (c *Coverage) IsPainted(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return false
	}
	return c.img.Pix[y*c.img.Stride+x] != 0
}

// PaintedPixels returns the number of pixels with non-zero alpha.
func (c *Coverage) PaintedPixels() int {
	n := 0
	for y := range c.Height() {
		row := c.img.Pix[y*c.img.Stride : y*c.img.Stride+c.Width()]
		for _, a := range row {
			if a != 0 {
				n++
			}
		}
	}
	return n
}

// Paint stamps the marker at the normalized point p.
func (c *Coverage) Paint(p vec.Vec2) {
	d := c.brush.Radius(c.Width())
	if d <= 0 {
		return
	}
	c.o.point(d, c.brush.Cap)
	c.fill(c.toPixels(p))
}

// PaintSegment paints a marker stroke from a to b, both in normalized
// document space.
func (c *Coverage) PaintSegment(a, b vec.Vec2) {
	d := c.brush.Radius(c.Width())
	if d <= 0 {
		return
	}
	pa := c.toPixels(a)
	c.o.segment(c.toPixels(b).Sub(pa), d, c.brush.Cap)
	c.fill(pa)
}

// FillRect paints every pixel of the given normalized rectangle, using the
// same pixel bounds as [mask.Rect.PixelBounds].
func (c *Coverage) FillRect(r mask.Rect) {
	x0, y0, x1, y1 := r.PixelBounds(c.Width(), c.Height())
	for y := y0; y < y1; y++ {
		row := c.img.Pix[y*c.img.Stride:]
		for x := x0; x < x1; x++ {
			row[x] = 0xff
		}
	}
}

func (c *Coverage) toPixels(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: p.X * float64(c.Width()), Y: p.Y * float64(c.Height())}
}

// fill rasterises the current outline, translated to origin, and merges
// the result into the raster.
func (c *Coverage) fill(origin vec.Vec2) {
	if len(c.o.p.Cmds) == 0 {
		return
	}
	c.r.CTM = matrix.Translate(origin.X, origin.Y)
	c.r.Fill(&c.o.p, func(y, xMin int, coverage []float32) {
		row := c.img.Pix[y*c.img.Stride+xMin:]
		for i, v := range coverage {
			a := uint8(v*255 + 0.5)
			if a > row[i] {
				row[i] = a
			}
		}
	})
}
