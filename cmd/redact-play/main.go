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

// Redact-play runs a scripted redaction session without a display.
//
// A simple bot plays a number of rounds: it waits for each document to
// load, sweeps the marker across the target rectangles and presses "done".
// The frame shown in each scoring phase is written as a PNG file, and
// optionally as a vector PDF showing the targets and the marker strokes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/redact"
	"seehuhn.de/go/redact/asset"
	"seehuhn.de/go/redact/compositor"
	"seehuhn.de/go/redact/layout"
	"seehuhn.de/go/redact/mask"
	"seehuhn.de/go/redact/report"
	"seehuhn.de/go/redact/round"
)

const (
	frameTime   = 1.0 / 30
	loadTimeout = 10 * time.Second
)

func main() {
	catalog := flag.String("c", "masks.json", "mask catalog JSON file")
	docs := flag.String("d", ".", "document image directory")
	out := flag.String("o", "", "output directory for score frames")
	rounds := flag.Int("n", 3, "number of rounds to play")
	seed := flag.Uint64("seed", 1, "random seed for the mask order and the bot")
	connected := flag.Bool("connected", true, "paint between consecutive pointer positions")
	writePDF := flag.Bool("pdf", false, "also write each scored round as a PDF file")
	verbose := flag.Bool("v", false, "log phase transitions")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	redact.SetLogger(logger)

	cat, err := mask.LoadCatalog(os.DirFS(filepath.Dir(*catalog)), filepath.Base(*catalog))
	if err != nil {
		slog.Error("loading catalog", "error", err)
		os.Exit(1)
	}

	opt := options{
		docs:      *docs,
		out:       *out,
		rounds:    *rounds,
		seed:      *seed,
		connected: *connected,
		pdf:       *writePDF,
	}
	if err := play(cat, opt); err != nil {
		slog.Error("playing", "error", err)
		os.Exit(1)
	}
}

type options struct {
	docs      string
	out       string
	rounds    int
	seed      uint64
	connected bool
	pdf       bool
}

// fanout forwards draw requests to several compositors.
type fanout []round.Compositor

func (f fanout) DrawDocument(d round.DocumentDraw) {
	for _, c := range f {
		c.DrawDocument(d)
	}
}

func (f fanout) DrawStrokes(d round.StrokeDraw) {
	for _, c := range f {
		c.DrawStrokes(d)
	}
}

func (f fanout) DrawUI(d round.UIDraw) {
	for _, c := range f {
		c.DrawUI(d)
	}
}

func play(cat mask.Catalog, opt options) error {
	const width, height = 1024, 768
	rounds := opt.rounds

	rng := rand.New(rand.NewPCG(opt.seed, opt.seed^0x5eed))
	e, err := round.New(cat,
		round.WithRand(rng),
		round.WithConnected(opt.connected))
	if err != nil {
		return err
	}
	e.Resize(width, height)

	canvas, err := compositor.New(width, height)
	if err != nil {
		return err
	}
	defer canvas.Close()

	sheet := &report.Sheet{}
	target := fanout{canvas, sheet}

	loader := asset.NewLoader(os.DirFS(opt.docs))
	ctx := context.Background()
	b := &bot{rng: rng}
	requested := ""

	for frame := 0; e.State().Round < rounds; frame++ {
		src, loaded := e.Document()
		if !loaded && src != requested {
			loader.Request(ctx, src)
			requested = src
		}
		res, ok := loader.Poll()
		if !ok && !loaded {
			// nothing else can happen before the document arrives
			waitCtx, cancel := context.WithTimeout(ctx, loadTimeout)
			res, err = loader.Wait(waitCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("waiting for %q: %w", src, err)
			}
			ok = true
		}
		if ok {
			if res.Err != nil {
				return res.Err
			}
			canvas.SetDocument(res.Src, res.Image)
			bounds := res.Image.Bounds()
			if err := e.DocumentLoaded(res.Src, bounds.Dx(), bounds.Dy()); err != nil {
				slog.Warn("document load", "error", err)
			} else {
				requested = ""
			}
		}

		if err := b.step(e); err != nil {
			return err
		}
		e.Update(frameTime)

		if e.Render(target) && e.Phase() == round.Scoring {
			s := e.State()
			slog.Info("round finished", "round", s.Round, "score", s.RoundScore, "total", s.TotalScore)
			if opt.out != "" {
				base := filepath.Join(opt.out, fmt.Sprintf("round-%03d", s.Round))
				if err := writeFrame(canvas, base+".png"); err != nil {
					return err
				}
				if opt.pdf {
					if err := sheet.WriteFile(base+".pdf", e.Mask().Targets); err != nil {
						return err
					}
				}
			}
			if s.Round < rounds {
				if err := e.Continue(); err != nil {
					return err
				}
			}
		}

		if frame > 100000 {
			return fmt.Errorf("session did not finish after %d frames", frame)
		}
	}
	return nil
}

func writeFrame(c *compositor.Canvas, name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return c.EncodePNG(f)
}

// bot sweeps the marker over the target rectangles, one pointer position
// per frame.
type bot struct {
	rng  *rand.Rand
	path []vec.Vec2 // remaining positions, in document space
	down bool
}

func (b *bot) step(e *round.Engine) error {
	switch e.Phase() {
	case round.Prompt:
		if _, loaded := e.Document(); !loaded {
			return nil
		}
		b.plan(e.Mask(), e.Coverage().Brush().RadiusNorm)
		return e.Ready()

	case round.Redacting:
		l, ok := e.Layout()
		if !ok {
			return nil
		}
		if len(b.path) == 0 {
			e.PointerUp(vec.Vec2{})
			b.down = false
			return e.Done()
		}
		p := layout.ToScreen(b.path[0], l)
		b.path = b.path[1:]
		if !b.down {
			b.down = true
			return e.PointerDown(p)
		}
		e.PointerMove(p)
	}
	return nil
}

// plan computes a zig-zag path covering every target, with a little
// jitter so that the bot is not perfect.
func (b *bot) plan(m mask.Mask, radius float64) {
	b.path = b.path[:0]
	step := 1.5 * radius
	for _, t := range m.Targets {
		if t.IsEmpty() {
			continue
		}
		left := true
		for y := t.Y; y <= t.Y+t.Height; y += step {
			x0, x1 := t.X, t.X+t.Width
			if !left {
				x0, x1 = x1, x0
			}
			jitter := (b.rng.Float64() - 0.5) * radius
			b.path = append(b.path,
				vec.Vec2{X: x0, Y: y + jitter},
				vec.Vec2{X: x1, Y: y + jitter})
			left = !left
		}
	}
}
