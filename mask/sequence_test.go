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
	"testing"
)

// TestSequencePasses checks that every index is presented exactly once per
// pass, and that the sequence reshuffles exactly when a pass wraps.
func TestSequencePasses(t *testing.T) {
	const n = 7
	s := NewSequence(n, rand.New(rand.NewPCG(1, 2)))

	for pass := range 5 {
		seen := make([]int, n)
		for i := range n {
			if s.Position() != i {
				t.Fatalf("pass %d: position %d, want %d", pass, s.Position(), i)
			}
			seen[s.Current()]++
			wrapped := s.Advance()
			if wrapped != (i == n-1) {
				t.Fatalf("pass %d step %d: wrapped=%t", pass, i, wrapped)
			}
		}
		for idx, count := range seen {
			if count != 1 {
				t.Errorf("pass %d: index %d presented %d times", pass, idx, count)
			}
		}
		if s.Passes() != pass+1 {
			t.Errorf("Passes() = %d, want %d", s.Passes(), pass+1)
		}
	}
}

func TestSequenceSingle(t *testing.T) {
	s := NewSequence(1, nil)
	for range 3 {
		if s.Current() != 0 {
			t.Fatalf("Current() = %d", s.Current())
		}
		if !s.Advance() {
			t.Error("a one-element sequence wraps on every step")
		}
	}
}

// TestSequenceUniform checks that the first element of a pass is close to
// uniformly distributed over many reshuffles.
func TestSequenceUniform(t *testing.T) {
	const n = 4
	const passes = 40000
	s := NewSequence(n, rand.New(rand.NewPCG(42, 7)))

	counts := make([]int, n)
	orders := map[[n]int]int{}
	for range passes {
		var key [n]int
		copy(key[:], s.Order())
		orders[key]++
		counts[s.Current()]++
		for range n {
			s.Advance()
		}
	}

	expected := float64(passes) / n
	for idx, c := range counts {
		if dev := float64(c) - expected; dev > 0.05*expected || dev < -0.05*expected {
			t.Errorf("index %d first in %d of %d passes", idx, c, passes)
		}
	}

	// all 4! permutations must occur
	if len(orders) != 24 {
		t.Errorf("saw %d distinct permutations, want 24", len(orders))
	}
}

func TestSequenceDeterministic(t *testing.T) {
	a := NewSequence(10, rand.New(rand.NewPCG(5, 5)))
	b := NewSequence(10, rand.New(rand.NewPCG(5, 5)))
	if !slices.Equal(a.Order(), b.Order()) {
		t.Error("equal seeds must give equal orders")
	}
}
