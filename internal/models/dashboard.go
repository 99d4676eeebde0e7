package models

import "time"

// Tier is the three-level severity classification driving bar colors.
type Tier string

const (
	TierNormal   Tier = "normal"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// BarClass maps a tier to the bootstrap progress-bar class the
// frontend has always used.
func (t Tier) BarClass() string {
	switch t {
	case TierCritical:
		return "bg-danger"
	case TierWarning:
		return "bg-warning"
	default:
		return "bg-success"
	}
}

// SummaryBar is the view model for one occupancy progress bar.
type SummaryBar struct {
	Label            string  `json:"label"`
	CurrentVehicles  int     `json:"current_vehicles"`
	TotalCapacity    int     `json:"total_capacity"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	BarWidthPercent  float64 `json:"bar_width_percent"` // clipped to [0,100] for the visual bar
	BarLabel         string  `json:"bar_label"`          // rounded percent, unclamped
	BarClass         string  `json:"bar_class"`
	Tier             Tier    `json:"tier"`
}

// LotCard is the per-lot card view model, already localized.
type LotCard struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	AvailabilityLabel string  `json:"availability_label"`
	AvailabilityClass string  `json:"availability_class"`
	Available         bool    `json:"available"`
	OccupancyText     string  `json:"occupancy_text"`
	OccupancyPercent  float64 `json:"occupancy_percent"`
	BarWidthPercent   float64 `json:"bar_width_percent"`
	BarLabel          string  `json:"bar_label"`
	BarClass          string  `json:"bar_class"`
	Tier              Tier    `json:"tier"`
	Note              string  `json:"note,omitempty"`
	HistoryID         string  `json:"history_id,omitempty"`
	HistoryLabel      string  `json:"history_label,omitempty"`
	LocationLink      string  `json:"location_link,omitempty"`
	ColumnClass       string  `json:"column_class"`
}

// RouteGroup is one route section: its summary bar plus sorted cards.
type RouteGroup struct {
	Route   string     `json:"route"`
	Name    string     `json:"name"`
	Summary SummaryBar `json:"summary"`
	Cards   []LotCard  `json:"cards"`
}

// SpecialLotView renders the out-of-route counts (two-wheelers etc).
type SpecialLotView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count string `json:"count"`
}

// MapLot is one pin on the overview map: where the lot is plus the
// flow counts shown in its popup.
type MapLot struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Route            string  `json:"route"`
	Available        bool    `json:"available"`
	CurrentVehicles  int     `json:"current_vehicles"`
	TotalCapacity    int     `json:"total_capacity"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	Tier             Tier    `json:"tier"`
	CurrentIn        int     `json:"current_in"`
	CurrentOut       int     `json:"current_out"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	LocationLink     string  `json:"location_link,omitempty"`
}

// MapView is the payload for the map page, localized like the
// dashboard. Lots without coordinates are still listed so the popup
// list stays complete; the map only plots the ones with a position.
type MapView struct {
	Locale      string    `json:"locale"`
	LastUpdated time.Time `json:"last_updated"`
	Lots        []MapLot  `json:"lots"`
	Stale       bool      `json:"stale"`
}

// DashboardView is the full dashboard payload for one locale.
// LastUpdated always reflects the most recent successful fetch; when
// Stale is set the data shown is the last known good snapshot.
type DashboardView struct {
	Locale          string           `json:"locale"`
	LastUpdated     time.Time        `json:"last_updated"`
	LastUpdatedText string           `json:"last_updated_text"`
	Freshness       string           `json:"freshness,omitempty"`
	Overall         SummaryBar       `json:"overall"`
	Routes          []RouteGroup     `json:"routes"`
	SpecialLots     []SpecialLotView `json:"special_lots,omitempty"`
	Stale           bool             `json:"stale"`
	Error           string           `json:"error,omitempty"`
}
