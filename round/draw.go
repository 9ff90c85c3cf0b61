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

package round

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/redact/layout"
	"seehuhn.de/go/redact/score"
)

// Compositor receives the draw requests of a round. Each call replaces
// the content of one layer.
//
// All coordinates are in screen pixels.
type Compositor interface {
	DrawDocument(DocumentDraw)
	DrawStrokes(StrokeDraw)
	DrawUI(UIDraw)
}

// DocumentDraw requests the document image to be drawn.
type DocumentDraw struct {
	Src    string
	Layout layout.Layout
}

// Disc is a painted marker position.
type Disc struct {
	Center vec.Vec2
	Radius float64
}

// Segment is the band painted between two consecutive marker positions.
type Segment struct {
	A, B  vec.Vec2
	Width float64
}

// StrokeDraw requests the markers of the current round to be drawn.
type StrokeDraw struct {
	// Shape is the marker shape. LineCapRound draws discs, LineCapSquare
	// draws squares and LineCapButt draws segments only.
	Shape graphics.LineCapStyle

	Discs []Disc

	// Segments is only set if connected painting is enabled.
	Segments []Segment
}

// ButtonID identifies a UI button.
type ButtonID int

// The buttons of the round UI.
const (
	NoButton ButtonID = iota
	ReadyButton
	DoneButton
	ContinueButton
	ExitButton
)

func (b ButtonID) String() string {
	switch b {
	case ReadyButton:
		return "ready"
	case DoneButton:
		return "done"
	case ContinueButton:
		return "continue"
	case ExitButton:
		return "exit"
	default:
		return "none"
	}
}

// Button is an active UI button. Bounds is the hit rectangle in screen
// pixels, with (LLx, LLy) the top-left corner.
type Button struct {
	ID     ButtonID
	Label  string
	Bounds rect.Rect
}

// UIDraw describes the labels and buttons for the current phase.
//
// In the prompt phase, Prompt and a ready button are shown. In the
// redaction phase, Countdown and a done button are shown. In the scoring
// phase, the scores and the continue and exit buttons are shown.
type UIDraw struct {
	Width, Height float64 // container size

	Phase      Phase
	Prompt     string
	Countdown  int // whole seconds left, rounded up
	Round      int
	RoundScore int
	TotalScore int
	Last       score.Result
	Buttons    []Button
}

const (
	buttonWidth  = 160
	buttonHeight = 44
	buttonMargin = 16
)

// buttonsFor lays out the buttons of a phase along the bottom edge of the
// container.
func buttonsFor(p Phase, width, height float64) []Button {
	var ids []ButtonID
	switch p {
	case Prompt:
		ids = []ButtonID{ReadyButton}
	case Redacting:
		ids = []ButtonID{DoneButton}
	case Scoring:
		ids = []ButtonID{ContinueButton, ExitButton}
	}

	n := float64(len(ids))
	total := n*buttonWidth + (n-1)*buttonMargin
	x := (width - total) / 2
	y := height - buttonMargin - buttonHeight

	buttons := make([]Button, len(ids))
	for i, id := range ids {
		buttons[i] = Button{
			ID:    id,
			Label: labels[id],
			Bounds: rect.Rect{
				LLx: x, LLy: y,
				URx: x + buttonWidth, URy: y + buttonHeight,
			},
		}
		x += buttonWidth + buttonMargin
	}
	return buttons
}

var labels = map[ButtonID]string{
	ReadyButton:    "Ready",
	DoneButton:     "Done",
	ContinueButton: "Continue",
	ExitButton:     "Exit",
}

func hit(b rect.Rect, p vec.Vec2) bool {
	return p.X >= b.LLx && p.X <= b.URx && p.Y >= b.LLy && p.Y <= b.URy
}
