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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Brush describes the marker used to paint redaction strokes.
type Brush struct {
	// RadiusNorm is the marker radius as a fraction of the document width.
	RadiusNorm float64

	// Cap selects the shape of isolated points and segment ends.
	// LineCapRound paints discs, LineCapSquare paints axis-aligned squares
	// and LineCapButt paints nothing for an isolated point.
	Cap graphics.LineCapStyle
}

// DefaultBrush is the marker used when no other brush is configured.
var DefaultBrush = Brush{
	RadiusNorm: 0.012,
	Cap:        graphics.LineCapRound,
}

// Radius returns the marker radius in pixels for a document of the given
// width.
func (b Brush) Radius(width int) float64 {
	return b.RadiusNorm * float64(width)
}

// outline collects the polygon outline of a single marker shape.
// Points are relative to an origin, which is applied through the CTM.
type outline struct {
	p        path.Data
	flatness float64
	started  bool
}

func (o *outline) reset() {
	o.p.Cmds = o.p.Cmds[:0]
	o.p.Coords = o.p.Coords[:0]
	o.started = false
}

func (o *outline) add(v vec.Vec2) {
	if o.started {
		o.p.Cmds = append(o.p.Cmds, path.CmdLineTo)
	} else {
		o.p.Cmds = append(o.p.Cmds, path.CmdMoveTo)
		o.started = true
	}
	o.p.Coords = append(o.p.Coords, v)
}

func (o *outline) close() {
	if o.started {
		o.p.Cmds = append(o.p.Cmds, path.CmdClose)
	}
}

// point builds the outline of an isolated marker point at the origin.
func (o *outline) point(d float64, capStyle graphics.LineCapStyle) {
	o.reset()
	switch capStyle {
	case graphics.LineCapRound:
		o.arc(vec.Vec2{}, d, vec.Vec2{X: 1}, 2*math.Pi)
	case graphics.LineCapSquare:
		o.add(vec.Vec2{X: -d, Y: -d})
		o.add(vec.Vec2{X: d, Y: -d})
		o.add(vec.Vec2{X: d, Y: d})
		o.add(vec.Vec2{X: -d, Y: d})
	}
	o.close()
}

// segment builds the outline of a marker dragged from the origin to b.
// If b is too close to the origin, the outline of a point is built instead.
func (o *outline) segment(b vec.Vec2, d float64, capStyle graphics.LineCapStyle) {
	length := b.Length()
	if length < zeroLengthThreshold {
		o.point(d, capStyle)
		return
	}
	o.reset()

	T := b.Mul(1 / length)
	N := vec.Vec2{X: -T.Y, Y: T.X}
	a := vec.Vec2{}

	o.add(a.Add(N.Mul(d)))
	o.add(b.Add(N.Mul(d)))
	o.cap(b, T, d, capStyle)
	o.add(b.Sub(N.Mul(d)))
	o.add(a.Sub(N.Mul(d)))
	o.cap(a, T.Mul(-1), d, capStyle)
	o.close()
}

// cap adds the end cap at P between the two offset points. T is the
// outward tangent direction.
func (o *outline) cap(P, T vec.Vec2, d float64, capStyle graphics.LineCapStyle) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	switch capStyle {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		o.add(ext.Add(N.Mul(d)))
		o.add(ext.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		o.arcInterior(P, d, N, -math.Pi)
	}
}

// arc adds a full circular arc including both end points.
func (o *outline) arc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64) {
	o.add(center.Add(startDir.Mul(radius)))
	o.arcInterior(center, radius, startDir, sweep)
}

// arcInterior adds the points of an arc after its start point, up to and
// including the end point. The number of chords keeps the sagitta below
// the flatness tolerance.
func (o *outline) arcInterior(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64) {
	n := 1
	if radius > o.flatness {
		step := 2 * math.Acos(1-o.flatness/radius)
		if step > 0 && !math.IsNaN(step) {
			n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
		}
	}
	n = max(n, 4)

	dt := sweep / float64(n)
	for i := 1; i <= n; i++ {
		sin, cos := math.Sincos(float64(i) * dt)
		dir := vec.Vec2{
			X: startDir.X*cos - startDir.Y*sin,
			Y: startDir.X*sin + startDir.Y*cos,
		}
		o.add(center.Add(dir.Mul(radius)))
	}
}
