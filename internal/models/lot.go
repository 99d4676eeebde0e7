package models

import "time"

// LotSnapshot is one parking facility at one point in time, already
// normalized from whatever shape the upstream feed delivered.
type LotSnapshot struct {
	ID               string  `json:"id"`
	NameEN           string  `json:"name_en"`
	NameTA           string  `json:"name_ta"`
	Route            string  `json:"route"`
	CurrentVehicles  int     `json:"current_vehicles"`
	TotalCapacity    int     `json:"total_capacity"`
	Available        bool    `json:"available"`
	OccupancyPercent float64 `json:"occupancy_percent"` // not clamped, can exceed 100
	NotesEN          string  `json:"notes_en,omitempty"`
	NotesTA          string  `json:"notes_ta,omitempty"`
	CurrentIn        int     `json:"current_in"`
	CurrentOut       int     `json:"current_out"`
	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
	LocationLink     string  `json:"location_link,omitempty"`
}

// SpecialLot is a count reported outside the route grouping,
// e.g. the two-wheeler stands.
type SpecialLot struct {
	ID              string `json:"id"`
	NameEN          string `json:"name_en"`
	NameTA          string `json:"name_ta"`
	CurrentVehicles int    `json:"current_vehicles"`
	TotalCapacity   int    `json:"total_capacity"`
}

// FleetSnapshot is the full upstream payload after normalization.
// It is rebuilt wholesale on every poll and never mutated in place.
type FleetSnapshot struct {
	Lots         []LotSnapshot             `json:"lots"`
	RouteSummary map[string]RouteAggregate `json:"route_summary,omitempty"`
	SpecialLots  []SpecialLot              `json:"special_lots,omitempty"`
	LastUpdated  time.Time                 `json:"last_updated"`
}
