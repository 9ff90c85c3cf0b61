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

import "fmt"

// Phase is the stage of a round.
type Phase int

// The phases of a round, in the order they are visited.
const (
	Prompt Phase = iota
	Redacting
	Scoring
)

func (p Phase) String() string {
	switch p {
	case Prompt:
		return "prompt"
	case Redacting:
		return "redacting"
	case Scoring:
		return "scoring"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
