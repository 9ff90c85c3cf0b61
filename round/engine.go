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

// Package round sequences the prompt, redaction and scoring phases of a
// redaction game.
//
// An [Engine] is driven by a single host loop. Each frame the host calls
// [Engine.Update] with the elapsed time and then [Engine.Render]. Pointer
// input and button activations are delivered synchronously between frames.
// The engine never draws itself. Instead it hands phase-specific draw
// requests to a [Compositor].
//
// The transitions are:
//
//	Prompt    --Ready-------------> Redacting
//	Redacting --Done or timeout---> Scoring
//	Scoring   --Continue----------> Prompt (next mask)
//	Scoring   --Exit--------------> Prompt (scores reset, next mask)
package round

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/redact"
	"seehuhn.de/go/redact/layout"
	"seehuhn.de/go/redact/mask"
	"seehuhn.de/go/redact/raster"
	"seehuhn.de/go/redact/score"
)

var (
	// ErrWrongPhase is returned when a trigger is not valid in the current
	// phase.
	ErrWrongPhase = errors.New("trigger not valid in this phase")

	// ErrNotLoaded is returned when a round is started before the document
	// image has been loaded.
	ErrNotLoaded = errors.New("document not loaded")

	// ErrStaleDocument is returned when a document load completes for an
	// image which is no longer current.
	ErrStaleDocument = errors.New("stale document")

	// ErrEmptyCatalog is returned by [New] for a catalog without masks.
	ErrEmptyCatalog = mask.ErrEmptyCatalog
)

// State is a snapshot of the round state.
type State struct {
	Phase      Phase        `json:"phase"`
	Timer      float64      `json:"timer"`
	TimeLimit  float64      `json:"timeLimit"`
	RoundScore int          `json:"roundScore"`
	TotalScore int          `json:"totalScore"`
	MaskIndex  int          `json:"maskIndex"` // index into the catalog
	Position   int          `json:"position"`  // position within the current pass
	Round      int          `json:"round"`     // number of scored rounds
	Last       score.Result `json:"last"`
	Loaded     bool         `json:"loaded"`
}

// Engine is the round state machine of one game session.
//
// An Engine is not safe for concurrent use. Hosts with several goroutines
// must serialise all calls, so that painting and scoring never interleave
// with clearing the coverage raster.
type Engine struct {
	catalog mask.Catalog
	seq     *mask.Sequence
	cov     *raster.Coverage
	scorer  score.Scorer
	brush   raster.Brush

	timeLimit float64
	connected bool
	onExit    func()

	phase      Phase
	timer      float64
	roundScore int
	totalScore int
	rounds     int
	last       score.Result
	current    int // catalog index of the mask being played

	// document and layout
	loaded         bool
	docW, docH     int
	containerW     float64
	containerH     float64
	lay            layout.Layout
	layoutOK       bool
	penDown        bool
	prev           vec.Vec2
	havePrev       bool
	points         []vec.Vec2
	segments       [][2]vec.Vec2
	dirty          bool
	shownCountdown int
}

// New creates an engine for the given catalog. The catalog is copied.
// The engine starts in the prompt phase of the first mask of a shuffled
// sequence. The host must load the image returned by [Engine.Document]
// and report it using [Engine.DocumentLoaded].
func New(catalog mask.Catalog, opts ...Option) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := make(mask.Catalog, len(catalog))
	for i := range catalog {
		c[i] = catalog[i].Clone()
	}

	e := &Engine{
		catalog:   c,
		seq:       mask.NewSequence(len(c), o.rng),
		cov:       raster.New(0, 0, o.brush),
		scorer:    o.scorer,
		brush:     o.brush,
		timeLimit: o.timeLimit,
		connected: o.connected,
		onExit:    o.onExit,
		phase:     Prompt,
		dirty:     true,
	}
	e.current = e.seq.Current()
	return e, nil
}

// State returns a snapshot of the round state.
func (e *Engine) State() State {
	return State{
		Phase:      e.phase,
		Timer:      e.timer,
		TimeLimit:  e.timeLimit,
		RoundScore: e.roundScore,
		TotalScore: e.totalScore,
		MaskIndex:  e.current,
		Position:   e.seq.Position(),
		Round:      e.rounds,
		Last:       e.last,
		Loaded:     e.loaded,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Mask returns the mask being played.
func (e *Engine) Mask() mask.Mask {
	return e.catalog[e.current].Clone()
}

// Scores returns the score of the last round and the total score.
func (e *Engine) Scores() (roundScore, totalScore int) {
	return e.roundScore, e.totalScore
}

// Stroke returns a copy of the painted points of the current round, in
// normalized document space.
func (e *Engine) Stroke() []vec.Vec2 {
	return slices.Clone(e.points)
}

// Coverage returns the coverage raster of the current round.
// The raster must not be modified by the caller.
func (e *Engine) Coverage() *raster.Coverage {
	return e.cov
}

// Document returns the image source of the current mask, and whether the
// image has been loaded.
func (e *Engine) Document() (src string, loaded bool) {
	return e.catalog[e.current].ImageSrc, e.loaded
}

// DocumentLoaded informs the engine that the image src has been loaded and
// has the given natural size. Loads for images other than the current one
// are ignored and reported as [ErrStaleDocument].
func (e *Engine) DocumentLoaded(src string, width, height int) error {
	want := e.catalog[e.current].ImageSrc
	if src != want {
		redact.Logger().Warn("ignoring stale document", "src", src, "current", want)
		return fmt.Errorf("%w: %q", ErrStaleDocument, src)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("document %q: invalid size %dx%d", src, width, height)
	}

	if !e.loaded || e.docW != width || e.docH != height {
		e.cov.Resize(width, height)
		e.points = e.points[:0]
		e.segments = e.segments[:0]
		e.havePrev = false
	}
	e.loaded = true
	e.docW, e.docH = width, height
	e.updateLayout()
	return nil
}

// Resize informs the engine about a new container size, in screen pixels.
func (e *Engine) Resize(width, height float64) {
	e.containerW, e.containerH = width, height
	e.updateLayout()
}

// Layout returns the current layout. The second return value is false if
// no input can be interpreted, because the document is not loaded or the
// container has no area.
func (e *Engine) Layout() (layout.Layout, bool) {
	return e.lay, e.layoutOK
}

// updateLayout recomputes the layout. It must run on every resize and on
// every document load, before the next input is interpreted.
func (e *Engine) updateLayout() {
	e.layoutOK = false
	e.lay = layout.Layout{}
	if e.loaded {
		e.lay, e.layoutOK = layout.Fit(e.containerW, e.containerH, float64(e.docW), float64(e.docH))
	}
	e.penDown = false
	e.havePrev = false
	e.dirty = true
	redact.Logger().Debug("layout updated",
		"container", fmt.Sprintf("%gx%g", e.containerW, e.containerH),
		"document", fmt.Sprintf("%dx%d", e.docW, e.docH),
		"scale", e.lay.Scale,
		"valid", e.layoutOK)
}

// Ready starts the redaction phase. The timer is reset to the time limit
// and all painting is cleared.
func (e *Engine) Ready() error {
	if e.phase != Prompt {
		return e.wrongPhase("ready")
	}
	if !e.loaded {
		return ErrNotLoaded
	}

	e.timer = e.timeLimit
	e.shownCountdown = countdown(e.timer)
	e.clearPainting()
	e.setPhase(Redacting)
	return nil
}

// Done ends the redaction phase early and scores the round. The time bonus
// is computed from the time remaining.
func (e *Engine) Done() error {
	if e.phase != Redacting {
		return e.wrongPhase("done")
	}
	e.finish(e.timer / e.timeLimit)
	return nil
}

// Continue leaves the scoring phase and presents the next mask.
func (e *Engine) Continue() error {
	if e.phase != Scoring {
		return e.wrongPhase("continue")
	}
	e.nextMask()
	return nil
}

// Exit leaves the scoring phase and resets the session scores and the
// round count. The exit handler is called, and the engine waits in the
// prompt phase of the next mask.
func (e *Engine) Exit() error {
	if e.phase != Scoring {
		return e.wrongPhase("exit")
	}
	rounds := e.rounds
	e.nextMask()
	e.resetScores()
	redact.Logger().Info("session exited", "rounds", rounds)
	if e.onExit != nil {
		e.onExit()
	}
	return nil
}

// Reset starts a new game. Scores and the round count are set to zero and
// the engine returns to the prompt phase. A reset from the scoring phase
// presents the next mask of the sequence, since the scored mask has
// already been used. Otherwise the current mask is kept. The exit handler
// is not called.
func (e *Engine) Reset() {
	if e.phase == Scoring {
		e.nextMask()
	}
	e.resetScores()
	e.timer = 0
	e.clearPainting()
	e.setPhase(Prompt)
}

func (e *Engine) resetScores() {
	e.roundScore = 0
	e.totalScore = 0
	e.rounds = 0
	e.last = score.Result{}
}

// Update advances the timer by dt seconds. Negative or NaN values of dt
// are treated as zero. When the timer reaches zero during the redaction
// phase, the round is scored without time bonus.
func (e *Engine) Update(dt float64) {
	if !(dt > 0) {
		dt = 0
	}
	if e.phase != Redacting {
		return
	}

	e.timer = max(e.timer-dt, 0)
	if c := countdown(e.timer); c != e.shownCountdown {
		e.shownCountdown = c
		e.dirty = true
	}
	if e.timer == 0 {
		e.finish(0)
	}
}

// PointerDown handles a pointer press at the screen point p. During the
// redaction phase a press on the document starts a stroke, even where a
// button overlaps the document; such buttons stay reachable through
// [Engine.Click]. Any other press on an active button activates it.
func (e *Engine) PointerDown(p vec.Vec2) error {
	painting := e.phase == Redacting && e.onDocument(p)
	if !painting {
		if id := e.buttonAt(p); id != NoButton {
			return e.activate(id)
		}
	}
	if e.phase != Redacting {
		return nil
	}
	e.penDown = true
	e.havePrev = false
	e.addPoint(p)
	return nil
}

// PointerMove extends the current stroke to the screen point p.
func (e *Engine) PointerMove(p vec.Vec2) {
	if !e.penDown || e.phase != Redacting {
		return
	}
	e.addPoint(p)
}

// PointerUp ends the current stroke.
func (e *Engine) PointerUp(vec.Vec2) {
	e.penDown = false
	e.havePrev = false
}

// Click activates the button under the screen point p, if any.
func (e *Engine) Click(p vec.Vec2) (ButtonID, error) {
	id := e.buttonAt(p)
	if id == NoButton {
		return NoButton, nil
	}
	return id, e.activate(id)
}

// Buttons returns the active buttons of the current phase.
func (e *Engine) Buttons() []Button {
	return buttonsFor(e.phase, e.containerW, e.containerH)
}

// Render passes the draw requests for the current state to c. Nothing is
// drawn if the state has not changed since the last call, or if the
// document is not loaded. The return value reports whether c was called.
func (e *Engine) Render(c Compositor) bool {
	if !e.dirty || !e.loaded {
		return false
	}
	e.dirty = false

	m := &e.catalog[e.current]
	c.DrawDocument(DocumentDraw{Src: m.ImageSrc, Layout: e.lay})
	c.DrawStrokes(e.strokeDraw())
	c.DrawUI(UIDraw{
		Width:      e.containerW,
		Height:     e.containerH,
		Phase:      e.phase,
		Prompt:     m.Prompt,
		Countdown:  e.shownCountdown,
		Round:      e.rounds,
		RoundScore: e.roundScore,
		TotalScore: e.totalScore,
		Last:       e.last,
		Buttons:    e.Buttons(),
	})
	return true
}

func (e *Engine) strokeDraw() StrokeDraw {
	d := StrokeDraw{Shape: e.brush.Cap}
	if !e.layoutOK {
		return d
	}
	r := layout.ScreenRadius(e.brush.RadiusNorm, e.lay)
	d.Discs = make([]Disc, len(e.points))
	for i, p := range e.points {
		d.Discs[i] = Disc{Center: layout.ToScreen(p, e.lay), Radius: r}
	}
	if len(e.segments) > 0 {
		d.Segments = make([]Segment, len(e.segments))
		for i, s := range e.segments {
			d.Segments[i] = Segment{
				A:     layout.ToScreen(s[0], e.lay),
				B:     layout.ToScreen(s[1], e.lay),
				Width: 2 * r,
			}
		}
	}
	return d
}

func (e *Engine) addPoint(screen vec.Vec2) {
	if !e.layoutOK {
		return
	}
	p, ok := layout.ToDocument(screen, e.lay)
	if !ok {
		redact.Logger().Debug("discarding point outside the document", "x", screen.X, "y", screen.Y)
		e.havePrev = false
		return
	}

	e.points = append(e.points, p)
	if e.connected && e.havePrev {
		e.segments = append(e.segments, [2]vec.Vec2{e.prev, p})
		e.cov.PaintSegment(e.prev, p)
	} else {
		e.cov.Paint(p)
	}
	e.prev = p
	e.havePrev = true
	e.dirty = true
}

// finish scores the round and enters the scoring phase. Only the
// redaction phase can reach this point, so each round is scored once.
func (e *Engine) finish(timeFrac float64) {
	m := &e.catalog[e.current]
	res := e.scorer.Score(m.Targets, e.cov, timeFrac)
	e.last = res
	e.roundScore = res.Score
	e.totalScore += res.Score
	e.rounds++
	e.penDown = false

	redact.Logger().Info("round scored",
		"mask", e.current,
		"correct", res.Correct,
		"falsePositive", res.FalsePositive,
		"missed", res.Missed,
		"score", res.Score,
		"total", e.totalScore)

	if e.seq.Advance() {
		redact.Logger().Info("mask sequence reshuffled", "passes", e.seq.Passes())
	}
	e.setPhase(Scoring)
}

// nextMask makes the next mask of the sequence current and returns to the
// prompt phase. The new image must be loaded by the host.
func (e *Engine) nextMask() {
	e.current = e.seq.Current()
	e.loaded = false
	e.docW, e.docH = 0, 0
	e.cov.Resize(0, 0)
	e.clearPainting()
	e.updateLayout()
	e.setPhase(Prompt)
}

func (e *Engine) clearPainting() {
	e.points = e.points[:0]
	e.segments = e.segments[:0]
	e.penDown = false
	e.havePrev = false
	e.cov.Clear()
	e.dirty = true
}

func (e *Engine) setPhase(p Phase) {
	if p != e.phase {
		redact.Logger().Debug("phase transition", "from", e.phase, "to", p)
	}
	e.phase = p
	e.dirty = true
}

func (e *Engine) onDocument(p vec.Vec2) bool {
	if !e.layoutOK {
		return false
	}
	_, ok := layout.ToDocument(p, e.lay)
	return ok
}

func (e *Engine) buttonAt(p vec.Vec2) ButtonID {
	for _, b := range e.Buttons() {
		if hit(b.Bounds, p) {
			return b.ID
		}
	}
	return NoButton
}

func (e *Engine) activate(id ButtonID) error {
	switch id {
	case ReadyButton:
		return e.Ready()
	case DoneButton:
		return e.Done()
	case ContinueButton:
		return e.Continue()
	case ExitButton:
		return e.Exit()
	}
	return nil
}

func (e *Engine) wrongPhase(trigger string) error {
	return fmt.Errorf("%s in phase %s: %w", trigger, e.phase, ErrWrongPhase)
}

func countdown(timer float64) int {
	return int(math.Ceil(timer))
}
