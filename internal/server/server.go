// Package server exposes the session and the scenario engine over HTTP for
// the dashboard front-end.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"BizBoost/internal/catalog"
	"BizBoost/internal/command"
	"BizBoost/internal/model"
	"BizBoost/internal/scenario"
	"BizBoost/internal/session"
)

const maxBody = 1 << 20

// Handler serves the dashboard API.
type Handler struct {
	session     *session.Session
	assumptions scenario.Assumptions
	overrides   map[string]scenario.Assumptions
	log         *logrus.Entry
}

// NewHandler creates the API handler. Assumptions and overrides are used by
// the stateless simulate endpoint.
func NewHandler(sess *session.Session, a scenario.Assumptions, overrides map[string]scenario.Assumptions, logger *logrus.Logger) *Handler {
	return &Handler{
		session:     sess,
		assumptions: a,
		overrides:   overrides,
		log:         logger.WithField("component", "http"),
	}
}

// Router returns the API routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/businesses", h.ListBusinesses).Methods(http.MethodGet)
	api.HandleFunc("/session", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/session/business", h.SelectBusiness).Methods(http.MethodPut)
	api.HandleFunc("/session/commands", h.SubmitCommand).Methods(http.MethodPost)
	api.HandleFunc("/session/scenario", h.ClearScenario).Methods(http.MethodDelete)
	api.HandleFunc("/simulate", h.Simulate).Methods(http.MethodPost)
	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListBusinesses returns the catalog and the current business ID.
func (h *Handler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"businesses": h.session.Catalog().List(),
		"current":    h.session.View().Business.ID,
	})
}

// GetSession returns what the dashboard renders.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.session.View())
}

// SelectBusiness switches the current business.
func (h *Handler) SelectBusiness(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		h.writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if _, err := h.session.SelectBusiness(req.ID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, h.session.View())
}

// SubmitCommand runs one what-if command or question.
func (h *Handler) SubmitCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string `json:"command"`
	}
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reply, err := h.session.Submit(r.Context(), req.Command)
	switch {
	case errors.Is(err, session.ErrEmptyCommand):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, session.ErrBusy):
		h.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.log.WithError(err).Error("submit command")
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

// ClearScenario drops the active scenario.
func (h *Handler) ClearScenario(w http.ResponseWriter, r *http.Request) {
	h.session.ClearScenario()
	h.writeJSON(w, http.StatusOK, h.session.View())
}

type simulateRequest struct {
	BusinessID string               `json:"business_id"`
	Business   *model.BusinessState `json:"business"`
	Command    string               `json:"command"`
}

type simulateResponse struct {
	Matched     bool                `json:"matched"`
	Rule        string              `json:"rule,omitempty"`
	Description string              `json:"description"`
	Original    model.BusinessState `json:"original"`
	Simulated   model.BusinessState `json:"simulated"`
}

// Simulate parses and applies a command to a catalog business or to a
// business sent in the request, without touching the session or the advisor.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		h.writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	var state model.BusinessState
	switch {
	case req.Business != nil:
		state = *req.Business
	case req.BusinessID != "":
		b, err := h.session.Catalog().Get(req.BusinessID)
		if err != nil {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		state = b
	default:
		state = h.session.View().Business
	}

	delta := command.Parse(req.Command)
	a := scenario.AssumptionsFor(state.Type, h.assumptions, h.overrides)
	simulated, ok := scenario.Simulate(state, delta, a)
	h.writeJSON(w, http.StatusOK, simulateResponse{
		Matched:     ok,
		Rule:        command.Classify(req.Command),
		Description: command.Describe(delta),
		Original:    state,
		Simulated:   simulated,
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("encode response")
		body, status = []byte(`{"error":"internal error"}`), http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.log.WithError(err).Warn("write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
