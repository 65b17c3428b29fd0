// Package server provides the local HTTP control surface for the gesture
// pipeline: health, status, tuning configuration, and the event stream.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store *store.Store
	App   *app.App
	Hub   *EventHub
}

// Server is the HTTP control surface.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/config", s.handleConfig)
	s.mux.HandleFunc("/api/enabled", s.handleEnabled)

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/events", s.handleEvents)
		s.mux.HandleFunc("/api/profiles", s.handleProfiles)
		s.mux.HandleFunc("/api/profiles/", s.handleProfileAction)
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/events/ws", s.config.Hub)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.config.App.Status())
}

// handleConfig serves the active tuning parameters. PUT applies them live
// and persists them to the active profile.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.config.App.EngineConfig())

	case http.MethodPut:
		var cfg engine.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid config JSON: "+err.Error())
			return
		}

		if err := s.config.App.ApplyConfig(cfg); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if s.config.Store != nil {
			if err := s.persistConfig(cfg); err != nil {
				log.Printf("Failed to persist config: %v", err)
			}
		}

		writeJSON(w, http.StatusOK, cfg)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) persistConfig(cfg engine.Config) error {
	p, err := s.config.Store.Profiles().GetActive()
	if err != nil {
		return err
	}
	p.Config = cfg
	return s.config.Store.Profiles().Update(p)
}

// handleEnabled toggles gesture control on and off.
func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.config.App.IsEnabled()})

	case http.MethodPut:
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		s.config.App.SetEnabled(body.Enabled)
		writeJSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEvents handles GET requests to /api/events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := s.config.Store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// profileJSON is the wire form of a profile.
type profileJSON struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Config engine.Config `json:"config"`
	Active bool          `json:"active"`
}

// handleProfiles handles GET and POST requests to /api/profiles.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profiles, err := s.config.Store.Profiles().List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]profileJSON, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, profileJSON{ID: p.ID, Name: p.Name, Config: p.Config, Active: p.Active})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var body profileJSON
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if body.Name == "" {
			writeError(w, http.StatusBadRequest, "profile name is required")
			return
		}
		if err := body.Config.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		p := &store.Profile{Name: body.Name, Config: body.Config}
		if err := s.config.Store.Profiles().Create(p); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, profileJSON{ID: p.ID, Name: p.Name, Config: p.Config})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleProfileAction routes /api/profiles/{id} and
// /api/profiles/{id}/activate.
func (s *Server) handleProfileAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/profiles/")

	if id, ok := strings.CutSuffix(rest, "/activate"); ok {
		s.activateProfile(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.config.Store.Profiles().GetByID(rest)
		if err != nil {
			s.profileError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profileJSON{ID: p.ID, Name: p.Name, Config: p.Config, Active: p.Active})

	case http.MethodDelete:
		if err := s.config.Store.Profiles().Delete(rest); err != nil {
			s.profileError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// activateProfile marks a profile active and applies its parameters to the
// running pipeline.
func (s *Server) activateProfile(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, err := s.config.Store.Profiles().GetByID(id)
	if err != nil {
		s.profileError(w, err)
		return
	}

	if err := s.config.App.ApplyConfig(p.Config); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.config.Store.Profiles().SetActive(id); err != nil {
		s.profileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileJSON{ID: p.ID, Name: p.Name, Config: p.Config, Active: true})
}

func (s *Server) profileError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
