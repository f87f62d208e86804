package api

import (
	"itinerary-route-service/internal/api/handlers"
	"itinerary-route-service/internal/platform/metrics"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/session"
	"net/http"
)

// Deps are the collaborators the HTTP surface needs. Metrics is optional.
type Deps struct {
	Sessions *session.Manager
	Places   ports.PlaceSearcher
	Metrics  *metrics.Metrics
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	sessions := &handlers.SessionHandler{Sessions: d.Sessions}
	places := &handlers.PlaceHandler{Searcher: d.Places}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /sessions", sessions.Create)
	mux.HandleFunc("GET /sessions/{id}", sessions.Get)
	mux.HandleFunc("PUT /sessions/{id}", sessions.Reset)
	mux.HandleFunc("DELETE /sessions/{id}", sessions.Delete)

	mux.HandleFunc("POST /sessions/{id}/days/next", sessions.NextDay)
	mux.HandleFunc("PUT /sessions/{id}/days/{day}/order", sessions.ReplaceOrder)
	mux.HandleFunc("POST /sessions/{id}/days/{day}/optimize", sessions.Optimize)

	mux.HandleFunc("POST /sessions/{id}/stops", sessions.AddStop)
	mux.HandleFunc("PATCH /sessions/{id}/stops/{stopID}", sessions.UpdateStop)
	mux.HandleFunc("DELETE /sessions/{id}/stops/{stopID}", sessions.DeleteStop)

	mux.HandleFunc("GET /sessions/{id}/share", sessions.Export)
	mux.HandleFunc("POST /share", sessions.Import)

	if d.Places != nil {
		mux.HandleFunc("GET /places", places.Search)
	}
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	return requestIDMiddleware(loggingMiddleware(d.Metrics, mux))
}
