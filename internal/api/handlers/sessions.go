package handlers

import (
	"errors"
	"itinerary-route-service/internal/adapters/llm"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/session"
	"log/slog"
	"net/http"
)

// SessionHandler exposes the planning session lifecycle.
type SessionHandler struct {
	Sessions *session.Manager
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.Sessions.Create(req.Config())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewSessionResponse(s.View()))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(s.View()))
}

// Reset replaces the trip of an existing session and discards its itinerary.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.Sessions.Reset(r.PathValue("id"), req.Config())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(s.View()))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NextDay generates the day after the last planned one.
func (h *SessionHandler) NextDay(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	stops, err := s.GenerateNextDay(r.Context())
	switch {
	case errors.Is(err, llm.ErrMissingKey):
		writeError(w, r, http.StatusServiceUnavailable, "day generation is not configured")
		return
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, llm.ErrUnavailable), errors.Is(err, llm.ErrInvalidOutput):
		slog.WarnContext(r.Context(), "day generation failed", "session", s.ID, "err", err)
		writeError(w, r, http.StatusBadGateway, "day generation failed, try again")
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	}

	day := 0
	if len(stops) > 0 {
		day = stops[0].DayIndex
	}
	writeJSON(w, r, http.StatusCreated, dto.DayResponse{Day: day, Stops: stops})
}

func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := s.Export()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ShareResponse{Token: token})
}

// Import starts a new session from a share token.
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.Sessions.Import(req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewSessionResponse(s.View()))
}
