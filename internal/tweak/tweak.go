// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tweak serves the parameter store over HTTP so a running renderer
// can be tuned from a browser or curl.
//
//	GET  /params         every parameter with its hint, as JSON
//	GET  /params/{name}  one parameter
//	PUT  /params/{name}  stage a write; the body is the value in text form
//	GET  /preset         the current values as a YAML preset
//	PUT  /preset         stage every entry of a YAML preset
//	GET  /frame.png      the most recently presented frame
//
// Writes are staged in the store and reach the passes at the next frame.
package tweak

import (
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gogpu/watercolor/params"
)

// maxBody bounds request bodies.
const maxBody = 64 << 10

// FrameSource provides the latest presented frame. It returns nil before the
// first frame.
type FrameSource interface {
	LatestFrame() image.Image
}

// Server is the tuning channel HTTP handler.
type Server struct {
	store  *params.Store
	frames FrameSource
	log    *slog.Logger
	mux    *http.ServeMux
}

// New returns a handler over store. frames may be nil, in which case
// /frame.png always reports that no frame is available. A nil log discards
// request logging.
func New(store *params.Store, frames FrameSource, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{store: store, frames: frames, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /params", s.listParams)
	s.mux.HandleFunc("GET /params/{name}", s.getParam)
	s.mux.HandleFunc("PUT /params/{name}", s.putParam)
	s.mux.HandleFunc("GET /preset", s.getPreset)
	s.mux.HandleFunc("PUT /preset", s.putPreset)
	s.mux.HandleFunc("GET /frame.png", s.frame)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) listParams(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.store.Describe())
}

func (s *Server) getParam(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	for _, h := range s.store.Describe() {
		if h.Name == name {
			s.writeJSON(w, h)
			return
		}
	}
	s.fail(w, params.ErrUnknownParameter)
}

func (s *Server) putParam(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	value := strings.TrimSpace(string(body))
	if err := s.store.SetString(name, value); err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("tweak: parameter staged", "name", name, "value", value)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getPreset(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if err := params.WritePreset(w, s.store.Snapshot()); err != nil {
		s.log.Warn("tweak: write preset", "err", err)
	}
}

func (s *Server) putPreset(w http.ResponseWriter, r *http.Request) {
	if err := params.ApplyPreset(io.LimitReader(r.Body, maxBody), s.store); err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("tweak: preset staged")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) frame(w http.ResponseWriter, _ *http.Request) {
	var img image.Image
	if s.frames != nil {
		img = s.frames.LatestFrame()
	}
	if img == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		s.log.Warn("tweak: encode frame", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Warn("tweak: encode response", "err", err)
	}
}

// fail maps store errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := http.StatusBadRequest
	if errors.Is(err, params.ErrUnknownParameter) {
		code = http.StatusNotFound
	}
	http.Error(w, err.Error(), code)
}
