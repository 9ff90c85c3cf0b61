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
	"image/draw"
	"math"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func quadTo(p *path.Data, c, end vec.Vec2) *path.Data {
	p.Cmds = append(p.Cmds, path.CmdQuadTo)
	p.Coords = append(p.Coords, c, end)
	return p
}

func cubeTo(p *path.Data, c1, c2, end vec.Vec2) *path.Data {
	p.Cmds = append(p.Cmds, path.CmdCubeTo)
	p.Coords = append(p.Coords, c1, c2, end)
	return p
}

// TestParabolaArea checks a quadratic segment against the exact area of a
// parabolic segment, 2/3 of base times height.
func TestParabolaArea(t *testing.T) {
	p := (&path.Data{}).MoveTo(vec.Vec2{X: 4, Y: 30})
	quadTo(p, vec.Vec2{X: 24, Y: -10}, vec.Vec2{X: 44, Y: 30})
	p.Close()

	r := NewRasteriser(rect.Rect{URx: 48, URy: 32})
	r.Flatness = 0.01
	var total float64
	r.Fill(p, func(y, xMin int, coverage []float32) {
		for _, c := range coverage {
			total += float64(c)
		}
	})

	want := 2.0 / 3 * 40 * 20
	if math.Abs(total-want) > 0.002*want {
		t.Errorf("parabola area %.2f, want %.2f", total, want)
	}
}

// TestCurvesMatchVector compares the per-pixel coverage of a closed shape
// with quadratic and cubic segments against golang.org/x/image/vector.
func TestCurvesMatchVector(t *testing.T) {
	const w, h = 64, 48

	start := vec.Vec2{X: 6, Y: 40}
	q1, q2 := vec.Vec2{X: 20, Y: 2}, vec.Vec2{X: 34, Y: 20}
	c1, c2, c3 := vec.Vec2{X: 70, Y: 0}, vec.Vec2{X: 60, Y: 60}, vec.Vec2{X: 30, Y: 44}

	p := (&path.Data{}).MoveTo(start)
	quadTo(p, q1, q2)
	cubeTo(p, c1, c2, c3)
	p.Close()

	for _, shift := range []vec.Vec2{{}, {X: 0.3, Y: 0.6}} {
		r := NewRasteriser(rect.Rect{URx: w, URy: h})
		r.CTM = matrix.Translate(shift.X, shift.Y)
		r.Flatness = 0.02
		got := collect(r, p, w, h)

		z := vector.NewRasterizer(w, h)
		z.DrawOp = draw.Src
		pt := func(v vec.Vec2) (float32, float32) {
			return float32(v.X + shift.X), float32(v.Y + shift.Y)
		}
		z.MoveTo(pt(start))
		qx, qy := pt(q1)
		ex, ey := pt(q2)
		z.QuadTo(qx, qy, ex, ey)
		ax, ay := pt(c1)
		bx, by := pt(c2)
		cx, cy := pt(c3)
		z.CubeTo(ax, ay, bx, by, cx, cy)
		z.ClosePath()
		want := image.NewAlpha(image.Rect(0, 0, w, h))
		z.Draw(want, want.Bounds(), image.Opaque, image.Point{})

		var sumGot, sumWant float64
		for y := range h {
			for x := range w {
				g := float64(got[y][x])
				v := float64(want.AlphaAt(x, y).A) / 255
				sumGot += g
				sumWant += v
				if math.Abs(g-v) > 0.15 {
					t.Errorf("shift %v, pixel (%d,%d): coverage %.3f, want %.3f", shift, x, y, g, v)
				}
			}
		}
		if math.Abs(sumGot-sumWant) > 0.01*sumWant {
			t.Errorf("shift %v: total coverage %.2f, want %.2f", shift, sumGot, sumWant)
		}
	}
}
