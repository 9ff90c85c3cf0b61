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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/redact/asset"
	"seehuhn.de/go/redact/compositor"
	"seehuhn.de/go/redact/mask"
	"seehuhn.de/go/redact/round"
)

// server hosts a single game session. All access to the engine is
// serialised by mu, so that painting and scoring never interleave.
type server struct {
	mu      sync.Mutex
	session uuid.UUID
	engine  *round.Engine
	canvas  *compositor.Canvas
	loader  *asset.Loader
	exits   int
}

func newServer(cat mask.Catalog, docs fs.FS, cfg Config) (*server, error) {
	s := &server{
		session: uuid.New(),
		loader:  asset.NewLoader(docs),
	}

	opts := []round.Option{
		round.WithTimeLimit(cfg.TimeLimit),
		round.WithConnected(cfg.Connected),
		round.WithExitHandler(s.onExit),
	}
	e, err := round.New(cat, opts...)
	if err != nil {
		return nil, err
	}
	s.engine = e

	c, err := compositor.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	s.canvas = c
	e.Resize(float64(cfg.Width), float64(cfg.Height))

	if err := s.syncDocument(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// onExit is called by the engine when the player leaves the round loop.
// A new session starts.
func (s *server) onExit() {
	old := s.session
	s.session = uuid.New()
	s.exits++
	slog.Info("session ended", "session", old, "next", s.session)
}

// syncDocument loads the image of the current mask, if necessary.
func (s *server) syncDocument(ctx context.Context) error {
	src, loaded := s.engine.Document()
	if loaded {
		return nil
	}
	img, err := s.loader.Load(ctx, src)
	if err != nil {
		return err
	}
	s.canvas.SetDocument(src, img)
	b := img.Bounds()
	return s.engine.DocumentLoaded(src, b.Dx(), b.Dy())
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(s.sessionHeader)

	r.Get("/state", s.state)
	r.Get("/frame.png", s.frame)
	r.Post("/pointer/{action}", s.pointer)
	r.Post("/click", s.click)
	r.Post("/tick", s.tick)
	r.Post("/resize", s.resize)
	r.Post("/reset", s.reset)

	r.Post("/ready", s.trigger((*round.Engine).Ready))
	r.Post("/done", s.trigger((*round.Engine).Done))
	r.Post("/continue", s.trigger((*round.Engine).Continue))
	r.Post("/exit", s.trigger((*round.Engine).Exit))
	return r
}

const sessionIDHeader = "X-Session-ID"

// sessionHeader sets the session header for responses which are written
// without touching the engine. Handlers which may change the session
// overwrite the header using setSession.
func (s *server) sessionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		id := s.session
		s.mu.Unlock()
		w.Header().Set(sessionIDHeader, id.String())
		next.ServeHTTP(w, r)
	})
}

// setSession sets the session header to the current session. The caller
// must hold s.mu.
func (s *server) setSession(w http.ResponseWriter) {
	w.Header().Set(sessionIDHeader, s.session.String())
}

type stateResponse struct {
	Session string        `json:"session"`
	Prompt  string        `json:"prompt"`
	Buttons []buttonState `json:"buttons"`
	round.State
}

type buttonState struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (s *server) state(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSession(w)
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *server) snapshot() stateResponse {
	resp := stateResponse{
		Session: s.session.String(),
		Prompt:  s.engine.Mask().Prompt,
		State:   s.engine.State(),
	}
	for _, b := range s.engine.Buttons() {
		resp.Buttons = append(resp.Buttons, buttonState{
			ID:     b.ID.String(),
			Label:  b.Label,
			Left:   b.Bounds.LLx,
			Top:    b.Bounds.LLy,
			Right:  b.Bounds.URx,
			Bottom: b.Bounds.URy,
		})
	}
	return resp
}

func (s *server) frame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncDocument(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.engine.Render(s.canvas)
	w.Header().Set("Content-Type", "image/png")
	if err := s.canvas.EncodePNG(w); err != nil {
		slog.Error("encoding frame", "error", err)
	}
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *server) pointer(w http.ResponseWriter, r *http.Request) {
	var p point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid point", http.StatusBadRequest)
		return
	}
	v := vec.Vec2{X: p.X, Y: p.Y}

	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	switch chi.URLParam(r, "action") {
	case "down":
		err = s.engine.PointerDown(v)
	case "move":
		s.engine.PointerMove(v)
	case "up":
		s.engine.PointerUp(v)
	default:
		http.NotFound(w, r)
		return
	}
	s.respond(w, r, err)
}

func (s *server) click(w http.ResponseWriter, r *http.Request) {
	var p point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid point", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.engine.Click(vec.Vec2{X: p.X, Y: p.Y})
	if id == round.NoButton {
		s.setSession(w)
		writeJSON(w, http.StatusOK, map[string]string{"button": id.String()})
		return
	}
	s.respond(w, r, err)
}

func (s *server) tick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DT float64 `json:"dt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid tick", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Update(req.DT)
	s.respond(w, r, nil)
}

func (s *server) resize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.canvas.Resize(req.Width, req.Height); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.engine.Resize(float64(req.Width), float64(req.Height))
	s.respond(w, r, nil)
}

func (s *server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
	s.session = uuid.New()
	s.respond(w, r, nil)
}

func (s *server) trigger(f func(*round.Engine) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.respond(w, r, f(s.engine))
	}
}

// respond loads the next document if needed and writes the state, or
// the error of a rejected trigger. The caller must hold s.mu.
func (s *server) respond(w http.ResponseWriter, r *http.Request, err error) {
	s.setSession(w)
	switch {
	case errors.Is(err, round.ErrWrongPhase), errors.Is(err, round.ErrNotLoaded):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := s.syncDocument(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("loading document: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}
