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

package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"
)

func TestFit(t *testing.T) {
	cases := []struct {
		cw, ch, iw, ih float64
		want           Layout
	}{
		{ // wide container: pillar box
			cw: 800, ch: 400, iw: 200, ih: 200,
			want: Layout{Scale: 2, OffsetX: 200, OffsetY: 0, DrawWidth: 400, DrawHeight: 400},
		},
		{ // tall container: letter box
			cw: 300, ch: 900, iw: 600, ih: 300,
			want: Layout{Scale: 0.5, OffsetX: 0, OffsetY: 375, DrawWidth: 300, DrawHeight: 150},
		},
		{ // exact fit
			cw: 100, ch: 50, iw: 100, ih: 50,
			want: Layout{Scale: 1, DrawWidth: 100, DrawHeight: 50},
		},
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			got, ok := Fit(c.cw, c.ch, c.iw, c.ih)
			if !ok {
				t.Fatal("unexpected degenerate layout")
			}
			if d := cmp.Diff(c.want, got); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestFitDegenerate(t *testing.T) {
	for _, c := range [][4]float64{
		{0, 100, 10, 10},
		{100, 100, 0, 10},
		{100, 100, 10, -1},
		{math.NaN(), 100, 10, 10},
	} {
		if _, ok := Fit(c[0], c[1], c[2], c[3]); ok {
			t.Errorf("Fit(%v) should fail", c)
		}
	}
}

// TestRoundTrip checks that ToScreen inverts ToDocument for points inside
// the drawn document.
func TestRoundTrip(t *testing.T) {
	layouts := []Layout{}
	for _, size := range [][4]float64{
		{800, 600, 1700, 2200},
		{1920, 1080, 640, 480},
		{333, 777, 1000, 1000},
	} {
		l, ok := Fit(size[0], size[1], size[2], size[3])
		if !ok {
			t.Fatal("degenerate layout")
		}
		layouts = append(layouts, l)
	}

	for i, l := range layouts {
		for _, f := range []float64{0.001, 0.25, 0.5, 0.75, 0.999} {
			p := vec.Vec2{
				X: l.OffsetX + f*l.DrawWidth,
				Y: l.OffsetY + (1-f)*l.DrawHeight,
			}
			q, ok := ToDocument(p, l)
			if !ok {
				t.Fatalf("layout %d: point %v unexpectedly outside", i, p)
			}
			back := ToScreen(q, l)
			if d := cmp.Diff(p, back, cmpopts.EquateApprox(0, 1e-9)); d != "" {
				t.Errorf("layout %d: round trip mismatch (-want +got):\n%s", i, d)
			}
		}
	}
}

func TestToDocumentOutside(t *testing.T) {
	l, _ := Fit(800, 400, 200, 200) // document drawn at x ∈ [200, 600]
	for _, p := range []vec.Vec2{
		{X: 199.9, Y: 200},
		{X: 600.1, Y: 200},
		{X: 400, Y: -0.1},
		{X: 400, Y: 400.1},
		{X: 10, Y: 10},
	} {
		if q, ok := ToDocument(p, l); ok {
			t.Errorf("ToDocument(%v) = %v, want none", p, q)
		}
	}

	if _, ok := ToDocument(vec.Vec2{X: 1, Y: 1}, Layout{}); ok {
		t.Error("degenerate layout must not map points")
	}
}

func TestScreenRadius(t *testing.T) {
	l, _ := Fit(1000, 1000, 500, 250)
	if got := ScreenRadius(0.012, l); math.Abs(got-12) > 1e-9 {
		t.Errorf("ScreenRadius = %g, want 12", got)
	}
}
