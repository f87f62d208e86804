package dto

import "itinerary-route-service/internal/ports"

type ListPlacesResponse struct {
	Places []ports.Place `json:"places"`
}
