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

// Package asset loads document images for the redaction game.
//
// Images are read from an [fs.FS]. PNG, JPEG and GIF are decoded by the
// standard library. BMP, TIFF and WebP are decoded by golang.org/x/image.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"seehuhn.de/go/redact"
)

// ErrUnknownFormat is returned for files which are not in a supported
// image format.
var ErrUnknownFormat = errors.New("unknown image format")

// Result is the outcome of an asynchronous load.
type Result struct {
	Src   string
	Image image.Image
	Err   error
}

// Loader reads document images.
//
// Loads can be started in the background using [Loader.Request]. The
// results are collected from the frame loop using [Loader.Poll], so that
// the round engine only ever sees completed loads on its own goroutine.
// The zero value with FS set is ready to use.
type Loader struct {
	FS fs.FS

	once    sync.Once
	results chan Result
}

// NewLoader returns a loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys}
}

func (l *Loader) queue() chan Result {
	l.once.Do(func() {
		l.results = make(chan Result, 8)
	})
	return l.results
}

// Load reads and decodes the image src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.FS.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s: %w", src, ErrUnknownFormat)
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	redact.Logger().Debug("document loaded", "src", src, "format", format, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// Size returns the natural pixel size of the image src, without decoding
// the pixel data.
func (l *Loader) Size(src string) (width, height int, err error) {
	f, err := l.FS.Open(src)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if errors.Is(err, image.ErrFormat) {
		return 0, 0, fmt.Errorf("%s: %w", src, ErrUnknownFormat)
	} else if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", src, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Request starts loading src in the background. The result is delivered
// through [Loader.Poll] or [Loader.Wait].
func (l *Loader) Request(ctx context.Context, src string) {
	results := l.queue()
	go func() {
		img, err := l.Load(ctx, src)
		select {
		case results <- Result{Src: src, Image: img, Err: err}:
		case <-ctx.Done():
		}
	}()
}

// Poll returns a completed load, if one is available. Poll never blocks.
func (l *Loader) Poll() (Result, bool) {
	select {
	case r := <-l.queue():
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until a load completes or ctx is cancelled.
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-l.queue():
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
