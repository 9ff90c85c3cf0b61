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

// Redactd serves a single-player redaction game over HTTP.
//
// The server keeps one round engine and renders its frames as PNG images.
// A client polls /frame.png and /state, and forwards pointer input, button
// clicks and frame ticks as JSON requests.
//
// Settings are read from the command line, from the environment and from
// an optional .env file in the working directory.
package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"seehuhn.de/go/redact"
	"seehuhn.de/go/redact/mask"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("reading .env", "error", err)
		os.Exit(1)
	}

	cfg, err := ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	redact.SetLogger(slog.Default())

	f, err := os.Open(cfg.Catalog)
	if err != nil {
		slog.Error("opening catalog", "error", err)
		os.Exit(1)
	}
	cat, err := mask.ReadCatalog(f)
	f.Close()
	if err != nil {
		slog.Error("reading catalog", "file", cfg.Catalog, "error", err)
		os.Exit(1)
	}

	s, err := newServer(cat, os.DirFS(cfg.Docs), cfg)
	if err != nil {
		slog.Error("starting game", "error", err)
		os.Exit(1)
	}
	defer s.canvas.Close()

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port, "masks", len(cat), "session", s.session)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
