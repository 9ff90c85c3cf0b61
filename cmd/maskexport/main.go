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

// Maskexport converts mask definitions given in document pixels into a
// normalized mask catalog.
//
// The input is a JSON array of objects with the fields "prompt",
// "imageSrc" and "pixelRects", where each pixel rectangle is given as
// [x, y, width, height] on the natural-size document image. The document
// images are read to find their size.
//
// Usage:
//
//	maskexport [-d docs] [-o masks.json] input.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"seehuhn.de/go/redact/asset"
	"seehuhn.de/go/redact/mask"
)

// pixelMask is a mask with target rectangles in document pixels.
type pixelMask struct {
	Prompt     string       `json:"prompt"`
	ImageSrc   string       `json:"imageSrc"`
	PixelRects [][4]float64 `json:"pixelRects"`
}

func main() {
	docs := flag.String("d", ".", "document image directory")
	out := flag.String("o", "", "output file (default: standard output)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] input.json\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	err := run(flag.Arg(0), *docs, *out)
	if err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(input, docs, output string) (err error) {
	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()

	loader := asset.NewLoader(os.DirFS(docs))
	cat, err := convert(in, loader)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if err := mask.WriteCatalog(w, cat); err != nil {
		return err
	}
	slog.Info("catalog written", "masks", len(cat))
	return nil
}

// convert reads pixel mask definitions from r and normalizes them using
// the natural size of each document.
func convert(r io.Reader, loader *asset.Loader) (mask.Catalog, error) {
	var in []pixelMask
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, mask.ErrEmptyCatalog
	}

	type size struct{ w, h int }
	sizes := map[string]size{}

	cat := make(mask.Catalog, 0, len(in))
	for i, pm := range in {
		if pm.ImageSrc == "" {
			return nil, fmt.Errorf("mask %d: %w", i, errNoImage)
		}
		sz, ok := sizes[pm.ImageSrc]
		if !ok {
			w, h, err := loader.Size(pm.ImageSrc)
			if err != nil {
				return nil, fmt.Errorf("mask %d: %w", i, err)
			}
			sz = size{w, h}
			sizes[pm.ImageSrc] = sz
		}

		m := mask.Mask{Prompt: pm.Prompt, ImageSrc: pm.ImageSrc}
		for _, pr := range pm.PixelRects {
			m.Targets = append(m.Targets, mask.FromPixels(pr[0], pr[1], pr[2], pr[3], sz.w, sz.h))
		}
		cat = append(cat, m)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

var errNoImage = errors.New("missing image source")
