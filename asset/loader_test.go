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

package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/image/bmp"
)

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := enc(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"doc.png": {Data: encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }, 40, 30)},
		"doc.bmp": {Data: encode(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }, 17, 9)},
		"doc.txt": {Data: []byte("not an image")},
	}
}

func TestLoad(t *testing.T) {
	l := NewLoader(testFS(t))
	ctx := context.Background()

	cases := map[string]image.Point{
		"doc.png": {40, 30},
		"doc.bmp": {17, 9},
	}
	for src, size := range cases {
		img, err := l.Load(ctx, src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got := img.Bounds().Size(); got != size {
			t.Errorf("%s: size %v, want %v", src, got, size)
		}

		w, h, err := l.Size(src)
		if err != nil || w != size.X || h != size.Y {
			t.Errorf("%s: Size() = %d, %d, %v", src, w, h, err)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(testFS(t))

	if _, err := l.Load(context.Background(), "doc.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("text file: got %v", err)
	}
	if _, _, err := l.Size("doc.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("text file size: got %v", err)
	}
	if _, err := l.Load(context.Background(), "missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, "doc.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: got %v", err)
	}
}

func TestRequest(t *testing.T) {
	l := NewLoader(testFS(t))
	if _, ok := l.Poll(); ok {
		t.Fatal("result before any request")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l.Request(ctx, "doc.png")
	r, err := l.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if r.Src != "doc.png" || r.Err != nil || r.Image == nil {
		t.Errorf("unexpected result %+v", r)
	}

	l.Request(ctx, "doc.txt")
	r, err = l.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(r.Err, ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", r.Err)
	}
}

func TestRequestZeroLoader(t *testing.T) {
	l := &Loader{FS: testFS(t)}
	if _, ok := l.Poll(); ok {
		t.Fatal("result before any request")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l.Request(ctx, "doc.png")
	r, err := l.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if r.Src != "doc.png" || r.Err != nil {
		t.Errorf("unexpected result %+v", r)
	}
}
