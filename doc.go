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

// Package redact implements the round engine of a document redaction game.
//
// A player is shown a document image and paints freehand markers over the
// regions they believe to be sensitive. At the end of each round the painted
// coverage is compared against a set of target rectangles and converted into
// a score.
//
// The work is split across the following packages:
//   - [seehuhn.de/go/redact/layout] maps between screen pixels and
//     normalized document coordinates.
//   - [seehuhn.de/go/redact/raster] accumulates painted markers in a
//     document-resolution coverage buffer.
//   - [seehuhn.de/go/redact/score] samples the coverage buffer against the
//     target rectangles.
//   - [seehuhn.de/go/redact/round] sequences the prompt, redaction and
//     scoring phases of each round.
//   - [seehuhn.de/go/redact/compositor] turns the draw requests of a round
//     into pixels.
//   - [seehuhn.de/go/redact/asset] loads document images in the
//     background.
//   - [seehuhn.de/go/redact/report] writes the outcome of a round as a
//     vector PDF.
//
// All packages are silent by default. Use [SetLogger] to enable logging.
package redact
