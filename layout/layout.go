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

// Package layout maps between screen pixels and normalized document space.
//
// Document space attaches the coordinates (0,0) to the top-left corner and
// (1,1) to the bottom-right corner of the document image, independent of
// how large the image is shown on screen.
package layout

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Layout describes where a document image is drawn inside its container.
// The image is scaled uniformly to fit ("contain") and centred.
type Layout struct {
	Scale      float64 // screen pixels per image pixel
	OffsetX    float64 // left edge of the drawn image, in screen pixels
	OffsetY    float64 // top edge of the drawn image, in screen pixels
	DrawWidth  float64 // width of the drawn image, in screen pixels
	DrawHeight float64 // height of the drawn image, in screen pixels
}

// Fit computes the layout of an image of the given natural size inside a
// container. The second return value is false if any of the sizes is not
// positive, in which case no input can be interpreted.
func Fit(containerWidth, containerHeight, imageWidth, imageHeight float64) (Layout, bool) {
	if !(containerWidth > 0 && containerHeight > 0 && imageWidth > 0 && imageHeight > 0) {
		return Layout{}, false
	}

	scale := min(containerWidth/imageWidth, containerHeight/imageHeight)
	drawWidth := imageWidth * scale
	drawHeight := imageHeight * scale
	return Layout{
		Scale:      scale,
		OffsetX:    (containerWidth - drawWidth) / 2,
		OffsetY:    (containerHeight - drawHeight) / 2,
		DrawWidth:  drawWidth,
		DrawHeight: drawHeight,
	}, true
}

// IsDegenerate reports whether the layout has no drawable area.
func (l Layout) IsDegenerate() bool {
	return !(l.DrawWidth > 0 && l.DrawHeight > 0)
}

// Transform returns the affine map from document space to screen space.
func (l Layout) Transform() matrix.Matrix {
	return matrix.Matrix{l.DrawWidth, 0, 0, l.DrawHeight, l.OffsetX, l.OffsetY}
}

// ToDocument converts a screen point into document space.
// The second return value is false if the point lies outside the drawn
// document, or if the layout is degenerate.
func ToDocument(p vec.Vec2, l Layout) (vec.Vec2, bool) {
	if l.IsDegenerate() {
		return vec.Vec2{}, false
	}
	x := (p.X - l.OffsetX) / l.DrawWidth
	y := (p.Y - l.OffsetY) / l.DrawHeight
	if !(x >= 0 && x <= 1 && y >= 0 && y <= 1) {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: x, Y: y}, true
}

// ToScreen converts a point in document space to screen pixels.
func ToScreen(p vec.Vec2, l Layout) vec.Vec2 {
	x, y := l.Transform().Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

// ScreenRadius converts a radius given as a fraction of the document width
// into screen pixels.
func ScreenRadius(norm float64, l Layout) float64 {
	return math.Abs(norm * l.DrawWidth)
}
