package handlers

import (
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"net/http"
	"strings"
)

func (h *SessionHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req dto.AddStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ch := s.AddStop(req.Stop(), req.Day)
	writeJSON(w, r, http.StatusCreated, dto.AddStopResponse{StopID: ch.StopID, Day: ch.Index, Stops: ch.Stops})
}

func (h *SessionHandler) UpdateStop(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var patch domain.StopPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name must not be empty")
		return
	}
	if patch.Coordinates != nil && !patch.Coordinates.Valid() {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}

	st, err := s.UpdateStop(r.PathValue("stopID"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *SessionHandler) DeleteStop(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := s.DeleteStop(r.PathValue("stopID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceOrder applies a user-chosen order to one day. Ids that do not
// belong to the day are ignored and missing ones keep their relative order.
func (h *SessionHandler) ReplaceOrder(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	day, ok := pathDay(w, r)
	if !ok {
		return
	}

	var req dto.DayOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stops, err := s.ReplaceDayOrder(day, req.StopIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DayResponse{Day: day, Stops: stops})
}

// Optimize requests a sequencing pass for one day regardless of its size.
// The result is applied in the background.
func (h *SessionHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	day, ok := pathDay(w, r)
	if !ok {
		return
	}

	if err := s.RequestReorder(day); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]int{"day": day})
}
