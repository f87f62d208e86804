package handlers

import (
	"errors"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

const maxPlaceLimit = 20

type PlaceHandler struct {
	Searcher ports.PlaceSearcher
}

// Search looks up places for free text, optionally biased towards lat/lng.
func (h *PlaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	text := strings.TrimSpace(q.Get("q"))
	if len([]rune(text)) < ports.MinPlaceQueryLength {
		writeServiceError(w, r, ports.ErrQueryTooShort)
		return
	}

	query := ports.PlaceQuery{Text: text}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPlaceLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 20")
			return
		}
		query.Limit = n
	}

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if latRaw != "" || lngRaw != "" {
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lng, errLng := strconv.ParseFloat(lngRaw, 64)
		bias := domain.Coordinates{Lat: lat, Lng: lng}
		if errLat != nil || errLng != nil || !bias.Valid() {
			writeError(w, r, http.StatusBadRequest, "lat and lng must be valid coordinates")
			return
		}
		query.Bias = &bias
	}

	found, err := h.Searcher.Search(r.Context(), query)
	switch {
	case errors.Is(err, ports.ErrQueryTooShort):
		writeServiceError(w, r, err)
		return
	case err != nil:
		slog.WarnContext(r.Context(), "place search failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusBadGateway, "place search failed")
		return
	}

	if found == nil {
		found = []ports.Place{}
	}
	writeJSON(w, r, http.StatusOK, dto.ListPlacesResponse{Places: found})
}
