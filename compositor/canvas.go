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

// Package compositor draws the round UI into pixel buffers.
//
// A [Canvas] keeps three layers, one each for the document image, the
// painted markers and the buttons and labels. Each layer is redrawn only
// when the round engine issues a new draw request for it.
package compositor

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/redact"
	"seehuhn.de/go/redact/round"
)

var (
	background  = gg.RGBA{R: 0.93, G: 0.93, B: 0.91, A: 1}
	markerColor = gg.RGBA{R: 0.05, G: 0.05, B: 0.05, A: 1}
)

// Canvas is a set of layered surfaces implementing [round.Compositor].
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	width, height int

	doc     *gg.Context
	strokes *gg.Context
	ui      *gg.Context

	images map[string]*gg.ImageBuf

	font  *text.FontSource
	label text.Face
	title text.Face
}

var _ round.Compositor = (*Canvas)(nil)

// New allocates a canvas of the given size in pixels.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading UI font: %w", err)
	}

	c := &Canvas{
		width:   width,
		height:  height,
		doc:     gg.NewContext(width, height),
		strokes: gg.NewContext(width, height),
		ui:      gg.NewContext(width, height),
		images:  make(map[string]*gg.ImageBuf),
		font:    font,
		label:   font.Face(16),
		title:   font.Face(22),
	}
	c.doc.ClearWithColor(background)
	return c, nil
}

// Close releases the resources held by the canvas.
func (c *Canvas) Close() error {
	var firstErr error
	for _, ctx := range []*gg.Context{c.doc, c.strokes, c.ui} {
		if err := ctx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := c.font.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Resize changes the size of all layers. The layers are cleared and must
// be redrawn.
func (c *Canvas) Resize(width, height int) error {
	for _, ctx := range []*gg.Context{c.doc, c.strokes, c.ui} {
		if err := ctx.Resize(width, height); err != nil {
			return err
		}
		ctx.Clear()
	}
	c.doc.ClearWithColor(background)
	c.width, c.height = width, height
	return nil
}

// SetDocument registers the decoded image for the source src.
func (c *Canvas) SetDocument(src string, img image.Image) {
	c.images[src] = gg.ImageBufFromImage(img)
}

// DrawDocument implements [round.Compositor].
func (c *Canvas) DrawDocument(d round.DocumentDraw) {
	c.doc.ClearWithColor(background)
	img, ok := c.images[d.Src]
	if !ok {
		redact.Logger().Warn("no image registered for document", "src", d.Src)
		return
	}
	if d.Layout.IsDegenerate() {
		return
	}
	c.doc.DrawImageEx(img, gg.DrawImageOptions{
		X:         d.Layout.OffsetX,
		Y:         d.Layout.OffsetY,
		DstWidth:  d.Layout.DrawWidth,
		DstHeight: d.Layout.DrawHeight,
		Opacity:   1,
	})
}

// DrawStrokes implements [round.Compositor].
func (c *Canvas) DrawStrokes(d round.StrokeDraw) {
	ctx := c.strokes
	ctx.Clear()
	ctx.SetColor(markerColor)

	if len(d.Segments) > 0 {
		ctx.SetLineCap(lineCap(d.Shape))
		for _, s := range d.Segments {
			ctx.SetLineWidth(s.Width)
			ctx.DrawLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
			c.check(ctx.Stroke())
		}
	}

	for _, disc := range d.Discs {
		switch d.Shape {
		case graphics.LineCapRound:
			ctx.DrawCircle(disc.Center.X, disc.Center.Y, disc.Radius)
		case graphics.LineCapSquare:
			ctx.DrawRectangle(disc.Center.X-disc.Radius, disc.Center.Y-disc.Radius,
				2*disc.Radius, 2*disc.Radius)
		}
	}
	if len(d.Discs) > 0 && d.Shape != graphics.LineCapButt {
		c.check(ctx.Fill())
	}
}

// DrawUI implements [round.Compositor].
func (c *Canvas) DrawUI(d round.UIDraw) {
	ctx := c.ui
	ctx.Clear()
	cx := d.Width / 2

	ctx.SetFont(c.title)
	ctx.SetRGB(0.1, 0.1, 0.15)
	switch d.Phase {
	case round.Prompt:
		ctx.DrawStringAnchored(d.Prompt, cx, 24, 0.5, 0.5)
	case round.Redacting:
		ctx.DrawStringAnchored(fmt.Sprintf("%d", d.Countdown), cx, 24, 0.5, 0.5)
	case round.Scoring:
		ctx.DrawStringAnchored(fmt.Sprintf("Round score: %d", d.RoundScore), cx, 24, 0.5, 0.5)
		ctx.SetFont(c.label)
		ctx.DrawStringAnchored(
			fmt.Sprintf("Total: %d   correct %d, wrong %d, missed %d",
				d.TotalScore, d.Last.Correct, d.Last.FalsePositive, d.Last.Missed),
			cx, 52, 0.5, 0.5)
	}

	ctx.SetFont(c.label)
	for _, b := range d.Buttons {
		r := b.Bounds
		ctx.SetRGB(0.16, 0.33, 0.62)
		ctx.DrawRoundedRectangle(r.LLx, r.LLy, r.Dx(), r.Dy(), 6)
		c.check(ctx.Fill())
		ctx.SetRGB(1, 1, 1)
		ctx.DrawStringAnchored(b.Label, (r.LLx+r.URx)/2, (r.LLy+r.URy)/2, 0.5, 0.5)
	}
}

// Image flattens the layers into a single image.
func (c *Canvas) Image() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for _, ctx := range []*gg.Context{c.doc, c.strokes, c.ui} {
		src := ctx.Image()
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	}
	return dst
}

// EncodePNG writes the flattened layers as a PNG image.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.Image())
}

func (c *Canvas) check(err error) {
	if err != nil {
		redact.Logger().Warn("drawing failed", "error", err)
	}
}

func lineCap(s graphics.LineCapStyle) gg.LineCap {
	switch s {
	case graphics.LineCapRound:
		return gg.LineCapRound
	case graphics.LineCapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}
