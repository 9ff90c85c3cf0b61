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

// Package mask describes the objectives of redaction rounds.
//
// A [Mask] combines a document image, a prompt shown to the player and the
// target rectangles the player is expected to cover. Masks are read from a
// JSON catalog and presented in shuffled order by a [Sequence].
package mask

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
)

var (
	// ErrInvalidRect is returned for rectangles with negative size or
	// non-finite coordinates.
	ErrInvalidRect = errors.New("invalid rectangle")

	// ErrEmptyCatalog is returned when a catalog contains no masks.
	ErrEmptyCatalog = errors.New("empty mask catalog")
)

// Mask is the objective of a single round.
type Mask struct {
	Prompt   string `json:"prompt"`
	ImageSrc string `json:"imageSrc"`
	Targets  []Rect `json:"targetRects"`
}

// Validate checks all target rectangles of the mask.
func (m *Mask) Validate() error {
	for i, r := range m.Targets {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the mask.
func (m Mask) Clone() Mask {
	m.Targets = slices.Clone(m.Targets)
	return m
}

// Catalog is an ordered collection of masks.
type Catalog []Mask

// ReadCatalog decodes a JSON array of masks from r.
func ReadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding mask catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog reads a JSON mask catalog from a file system.
func LoadCatalog(fsys fs.FS, name string) (c Catalog, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	c, err = ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// Validate checks that the catalog is non-empty and that every mask is
// valid.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return fmt.Errorf("mask %d (%q): %w", i, c[i].Prompt, err)
		}
	}
	return nil
}

// WriteCatalog encodes the catalog as indented JSON.
func WriteCatalog(w io.Writer, c Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
