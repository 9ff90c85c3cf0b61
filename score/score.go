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

// Package score compares a coverage raster against target rectangles.
//
// The raster is subsampled on a fixed stride. Painted samples inside any
// target count as correct and painted samples outside all targets count as
// false positives. Unpainted samples inside each target count as missed.
// The three counts are combined with a [Weights] value into a non-negative
// integer score.
package score

import (
	"math"

	"seehuhn.de/go/redact/mask"
)

// DefaultStride is the sampling stride, in raster pixels, used along both
// axes.
const DefaultStride = 4

// Raster is the read-only view of a coverage buffer needed for scoring.
type Raster interface {
	Width() int
	Height() int
	IsPainted(x, y int) bool
}

// Weights are the per-sample weights of the scoring formula.
//
// The subtotal is
//
//	Correct*correct - FalsePositive*falsePositive - Missed*missed
//
// and the time bonus adds TimeBonus*subtotal*timeFraction to this.
type Weights struct {
	Correct       float64
	FalsePositive float64
	Missed        float64
	TimeBonus     float64
}

var (
	// Classic rewards coverage and penalises misses heavily. There is no
	// time bonus.
	Classic = Weights{Correct: 2, FalsePositive: 1.5, Missed: 3}

	// Timed rewards coverage strongly, penalises misses lightly and adds a
	// bonus of up to 50% for finishing early.
	Timed = Weights{Correct: 20, FalsePositive: 1.5, Missed: 0.5, TimeBonus: 0.5}
)

// Counts are the sample counts of one scoring pass.
type Counts struct {
	Correct       int `json:"correct"`
	FalsePositive int `json:"falsePositive"`
	Missed        int `json:"missed"`
}

// Result is the outcome of scoring one round.
type Result struct {
	Counts
	Subtotal float64 `json:"subtotal"`
	Bonus    float64 `json:"bonus"`
	Score    int     `json:"score"`
}

// Scorer samples rasters and applies a weight set.
// A non-positive Stride selects [DefaultStride].
type Scorer struct {
	Weights Weights
	Stride  int
}

// Default is the scorer used when none is configured.
var Default = Scorer{Weights: Timed, Stride: DefaultStride}

func (s Scorer) stride() int {
	if s.Stride <= 0 {
		return DefaultStride
	}
	return s.Stride
}

// Count samples the raster against the targets.
//
// Target containment is inclusive on all four edges, so a painted sample
// on an edge shared by two targets counts once as correct, while an
// unpainted sample in the pixel range of two targets counts as missed for
// each of them.
func (s Scorer) Count(targets []mask.Rect, r Raster) Counts {
	step := s.stride()
	w, h := r.Width(), r.Height()

	var c Counts
	if w <= 0 || h <= 0 {
		return c
	}

	fw, fh := float64(w), float64(h)
	for y := 0; y < h; y += step {
		ny := float64(y) / fh
		for x := 0; x < w; x += step {
			if !r.IsPainted(x, y) {
				continue
			}
			if inAny(targets, float64(x)/fw, ny) {
				c.Correct++
			} else {
				c.FalsePositive++
			}
		}
	}

	for _, t := range targets {
		x0, y0, x1, y1 := t.PixelBounds(w, h)
		for y := y0; y < y1; y += step {
			for x := x0; x < x1; x += step {
				if !r.IsPainted(x, y) {
					c.Missed++
				}
			}
		}
	}
	return c
}

// Score samples the raster and applies the weights. timeFrac is the
// fraction of the time limit remaining when the round ended, and is
// clamped to [0, 1]. The final score is clamped to be non-negative and
// rounded to the nearest integer.
func (s Scorer) Score(targets []mask.Rect, r Raster, timeFrac float64) Result {
	return s.Apply(s.Count(targets, r), timeFrac)
}

// Apply converts sample counts into a result.
func (s Scorer) Apply(c Counts, timeFrac float64) Result {
	wt := s.Weights
	if math.IsNaN(timeFrac) {
		timeFrac = 0
	}
	timeFrac = min(max(timeFrac, 0), 1)

	sub := wt.Correct*float64(c.Correct) -
		wt.FalsePositive*float64(c.FalsePositive) -
		wt.Missed*float64(c.Missed)
	bonus := sub * wt.TimeBonus * timeFrac

	return Result{
		Counts:   c,
		Subtotal: sub,
		Bonus:    bonus,
		Score:    int(math.Round(max(sub+bonus, 0))),
	}
}

func inAny(targets []mask.Rect, x, y float64) bool {
	for _, t := range targets {
		if t.Contains(x, y) {
			return true
		}
	}
	return false
}
