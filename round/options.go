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
	"math/rand/v2"

	"seehuhn.de/go/redact/raster"
	"seehuhn.de/go/redact/score"
)

// DefaultTimeLimit is the length of the redaction phase, in seconds.
const DefaultTimeLimit = 30.0

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := round.New(catalog,
//		round.WithTimeLimit(45),
//		round.WithScorer(score.Scorer{Weights: score.Classic}))
type Option func(*options)

type options struct {
	timeLimit float64
	brush     raster.Brush
	scorer    score.Scorer
	rng       *rand.Rand
	connected bool
	onExit    func()
}

func defaultOptions() options {
	return options{
		timeLimit: DefaultTimeLimit,
		brush:     raster.DefaultBrush,
		scorer:    score.Default,
	}
}

// WithTimeLimit sets the length of the redaction phase, in seconds.
// Non-positive values are ignored.
func WithTimeLimit(seconds float64) Option {
	return func(o *options) {
		if seconds > 0 {
			o.timeLimit = seconds
		}
	}
}

// WithBrush sets the marker used for painting.
func WithBrush(b raster.Brush) Option {
	return func(o *options) {
		o.brush = b
	}
}

// WithScorer sets the scoring weights and sampling stride.
func WithScorer(s score.Scorer) Option {
	return func(o *options) {
		o.scorer = s
	}
}

// WithRand sets the random source used to shuffle the masks.
// This is mainly useful for reproducible tests.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithConnected enables painting of the band between consecutive pointer
// positions, so that fast pointer motion leaves no gaps. By default only
// the sampled pointer positions are painted.
func WithConnected(connected bool) Option {
	return func(o *options) {
		o.connected = connected
	}
}

// WithExitHandler sets the function called when the player leaves the
// round loop. The handler is called once per [Engine.Exit].
func WithExitHandler(f func()) Option {
	return func(o *options) {
		o.onExit = f
	}
}
