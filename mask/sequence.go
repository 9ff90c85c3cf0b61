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

package mask

import (
	"math/rand/v2"
	"slices"
)

// Sequence presents the indices 0, ..., n-1 in shuffled order.
// Every index is presented exactly once per pass. When a pass is exhausted
// the order is reshuffled with a uniform random permutation and the next
// pass begins.
//
// A Sequence is not safe for concurrent use.
type Sequence struct {
	order  []int
	pos    int
	passes int
	rng    *rand.Rand
}

// NewSequence returns a shuffled sequence over n indices. If rng is nil, a
// randomly seeded generator is used. n must be positive.
func NewSequence(n int, rng *rand.Rand) *Sequence {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Sequence{
		order: make([]int, n),
		rng:   rng,
	}
	for i := range s.order {
		s.order[i] = i
	}
	s.shuffle()
	return s
}

// Len returns the number of indices in one pass.
func (s *Sequence) Len() int {
	return len(s.order)
}

// Current returns the index presented at the current position.
func (s *Sequence) Current() int {
	return s.order[s.pos]
}

// Position returns the current position within the pass.
func (s *Sequence) Position() int {
	return s.pos
}

// Passes returns the number of completed passes.
func (s *Sequence) Passes() int {
	return s.passes
}

// Order returns a copy of the order of the current pass.
func (s *Sequence) Order() []int {
	return slices.Clone(s.order)
}

// Advance moves to the next position. When the end of the pass is reached,
// the position wraps to 0 and the order is reshuffled; in this case
// Advance returns true.
func (s *Sequence) Advance() bool {
	s.pos++
	if s.pos < len(s.order) {
		return false
	}
	s.pos = 0
	s.passes++
	s.shuffle()
	return true
}

// shuffle applies a Fisher–Yates shuffle to the order.
func (s *Sequence) shuffle() {
	s.rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
}
