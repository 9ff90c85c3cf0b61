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

// Package report writes the outcome of a redaction round as a single-page
// vector PDF.
//
// A [Sheet] is used as a [round.Compositor]: it remembers the most recent
// draw requests and can then write the drawn document area, the target
// rectangles and the player's marker strokes to a PDF file. One PDF point
// corresponds to one screen pixel.
package report

import (
	"errors"
	"io"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/redact/layout"
	"seehuhn.de/go/redact/mask"
	"seehuhn.de/go/redact/round"
)

// ErrNoDocument is returned when a sheet is written before a document was
// drawn.
var ErrNoDocument = errors.New("no document drawn")

// Sheet records the draw requests of a round.
type Sheet struct {
	lay     layout.Layout
	haveDoc bool
	strokes round.StrokeDraw
	ui      round.UIDraw
}

var _ round.Compositor = (*Sheet)(nil)

// DrawDocument implements [round.Compositor].
func (s *Sheet) DrawDocument(d round.DocumentDraw) {
	s.lay = d.Layout
	s.haveDoc = !d.Layout.IsDegenerate()
}

// DrawStrokes implements [round.Compositor].
func (s *Sheet) DrawStrokes(d round.StrokeDraw) {
	s.strokes = d
}

// DrawUI implements [round.Compositor].
func (s *Sheet) DrawUI(d round.UIDraw) {
	s.ui = d
}

// Phase returns the round phase of the most recent UI request.
func (s *Sheet) Phase() round.Phase {
	return s.ui.Phase
}

// WriteFile writes the sheet to the named PDF file. The given targets are
// shaded underneath the marker strokes.
func (s *Sheet) WriteFile(name string, targets []mask.Rect) error {
	if !s.haveDoc {
		return ErrNoDocument
	}
	page, err := document.CreateSinglePage(name, s.paper(), pdf.V1_7, nil)
	if err != nil {
		return err
	}
	s.draw(page, targets)
	return page.Close()
}

// Write writes the sheet as a PDF file to w.
func (s *Sheet) Write(w io.Writer, targets []mask.Rect) error {
	if !s.haveDoc {
		return ErrNoDocument
	}
	page, err := document.WriteSinglePage(w, s.paper(), pdf.V1_7, nil)
	if err != nil {
		return err
	}
	s.draw(page, targets)
	return page.Close()
}

func (s *Sheet) paper() *pdf.Rectangle {
	return &pdf.Rectangle{URx: s.lay.DrawWidth, URy: s.lay.DrawHeight}
}

func (s *Sheet) draw(page *document.Page, targets []mask.Rect) {
	l := s.lay

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, l.DrawWidth, l.DrawHeight)
	page.Fill()

	// PDF origin is bottom-left, screen origin is top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, -l.OffsetX, l.DrawHeight + l.OffsetY})

	// zero-area targets are not drawn
	shaded := slices.DeleteFunc(slices.Clone(targets), mask.Rect.IsEmpty)
	if len(shaded) > 0 {
		page.SetFillColor(color.DeviceGray(0.85))
		page.SetStrokeColor(color.DeviceGray(0.5))
		page.SetLineWidth(1)
		for _, t := range shaded {
			page.Rectangle(
				l.OffsetX+t.X*l.DrawWidth, l.OffsetY+t.Y*l.DrawHeight,
				t.Width*l.DrawWidth, t.Height*l.DrawHeight)
		}
		page.FillAndStroke()
	}

	page.SetFillColor(color.DeviceGray(0))
	page.SetStrokeColor(color.DeviceGray(0))

	d := s.strokes
	if len(d.Segments) > 0 {
		page.SetLineCap(d.Shape)
		page.SetLineWidth(d.Segments[0].Width)
		for _, seg := range d.Segments {
			page.MoveTo(seg.A.X, seg.A.Y)
			page.LineTo(seg.B.X, seg.B.Y)
		}
		page.Stroke()
	}

	if len(d.Discs) == 0 || d.Shape == graphics.LineCapButt {
		return
	}
	for _, disc := range d.Discs {
		c, r := disc.Center, disc.Radius
		if d.Shape == graphics.LineCapSquare {
			page.Rectangle(c.X-r, c.Y-r, 2*r, 2*r)
		} else {
			page.Circle(c.X, c.Y, r)
		}
	}
	page.Fill()
}
