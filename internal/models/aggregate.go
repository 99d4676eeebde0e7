package models

// RouteAggregate holds summed occupancy for one route (or the whole fleet).
// Always derived from the current snapshot, never carried between polls.
type RouteAggregate struct {
	Route            string  `json:"route"`
	CurrentVehicles  int     `json:"current_vehicles"`
	TotalCapacity    int     `json:"total_capacity"`
	OccupancyPercent float64 `json:"occupancy_percent"`
}
