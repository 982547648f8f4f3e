package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/radio-control/saltybridge/internal/auth"
	"github.com/radio-control/saltybridge/internal/plugin"
	"github.com/radio-control/saltybridge/internal/radio"
)

const apiV1 = "/api/v1"

// RegisterRoutes registers all v1 endpoints.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	control := s.authMiddleware.RequireScope(auth.ScopeControl)
	events := s.authMiddleware.RequireScope(auth.ScopeEvents)

	// Probes and metrics are unauthenticated.
	mux.Handle(apiV1+"/health/", http.StripPrefix(apiV1+"/health", s.health))
	if s.ports.Metrics != nil {
		mux.Handle("GET /metrics", s.ports.Metrics.Handler())
	}

	mux.HandleFunc("GET "+apiV1+"/state", control(s.handleState))
	mux.HandleFunc("POST "+apiV1+"/status", control(s.handleStatus))
	mux.HandleFunc("POST "+apiV1+"/disconnect", control(s.handleDisconnect))
	mux.HandleFunc("POST "+apiV1+"/commands/{name}", control(s.handleCommand))
	mux.HandleFunc("POST "+apiV1+"/exports/{name}", control(s.handleExport))
	mux.HandleFunc("GET "+apiV1+"/events", events(s.handleEvents))
}

// stateView is the body of GET /state.
type stateView struct {
	PluginState       *plugin.State   `json:"pluginState,omitempty"`
	PluginStateName   string          `json:"pluginStateName,omitempty"`
	PluginInitialized bool            `json:"pluginInitialized"`
	BridgeEnabled     bool            `json:"bridgeEnabled"`
	RadioEnabled      bool            `json:"radioEnabled"`
	Radio             *radio.Snapshot `json:"radio,omitempty"`
}

// handleState handles GET /state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, s.currentState())
}

func (s *Server) currentState() stateView {
	var view stateView
	if s.ports.Bridge != nil {
		view.BridgeEnabled = true
		view.RadioEnabled = s.ports.Bridge.RadioEnabled()
		if state, ok := s.ports.Bridge.PluginState(); ok {
			view.PluginState = &state
			view.PluginStateName = state.String()
		}
	}
	if s.ports.Client != nil {
		view.PluginInitialized = s.ports.Client.IsPluginInitialized(true)
	}
	if s.ports.Radio != nil {
		view.Radio = s.ports.Radio.Snapshot()
	}
	return view
}

// handleStatus handles POST /status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeStrict(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing status code", nil)
		return
	}
	if s.ports.Client == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Client module not available", nil)
		return
	}

	code := s.ports.Client.HandleResponse(req.Code)
	_, known := plugin.ParseStatusCode(string(code))
	s.logger.Debug("plugin status received", "code", code, "known", known)

	view := s.currentState()
	WriteSuccess(w, map[string]any{
		"code":  code,
		"known": known,
		"state": view,
	})
}

// handleDisconnect handles POST /disconnect
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if s.ports.Client == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Client module not available", nil)
		return
	}

	s.ports.Client.HandleDisconnect()
	WriteSuccess(w, s.currentState())
}

// handleCommand handles POST /commands/{name}
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.ports.Host == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Host runtime not available", nil)
		return
	}

	name := r.PathValue("name")
	if err := s.ports.Host.ExecuteCommand(name, false); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"command": name})
}

// handleExport handles POST /exports/{name}. The body is a JSON array of
// arguments; an empty body calls the export without arguments.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.ports.Host == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Host runtime not available", nil)
		return
	}

	var args []any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&args); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Body must be a JSON array of arguments", nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Trailing data after JSON array", nil)
		return
	}

	name := r.PathValue("name")
	result, err := s.ports.Host.CallExport(r.Context(), name, args...)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{
		"export": name,
		"result": result,
	})
}

// handleEvents handles GET /events
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.ports.Telemetry == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE",
			"Event stream not available", nil)
		return
	}

	if err := s.ports.Telemetry.Subscribe(r.Context(), w, r); err != nil {
		s.logger.Debug("event stream closed", "error", err)
	}
}

// decodeStrict decodes a single JSON object and rejects unknown fields and
// trailing data.
func decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed JSON or unknown fields", nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Trailing data after JSON object", nil)
		return false
	}
	return true
}
