package upstream

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

// The feed has shipped several payload shapes over its life: lots under
// "lots", "data" or "route_lots", occupancy percent sometimes supplied
// and sometimes not, numbers sometimes sent as strings. Everything is
// folded into the canonical FleetSnapshot here, at the fetch boundary,
// so nothing downstream branches on payload shape.

type rawSnapshot struct {
	LastUpdated  string                `json:"last_updated"`
	Lots         []rawLot              `json:"lots"`
	Data         []rawLot              `json:"data"`
	RouteLots    []rawLot              `json:"route_lots"`
	RouteSummary map[string]rawSummary `json:"route_summary"`
	SpecialLots  []rawLot              `json:"special_lots"`
	TwoWheeler   []rawLot              `json:"two_wheeler"`
}

type rawLot struct {
	ID           string    `json:"ParkingLotID"`
	NameEN       string    `json:"Parking_name_en"`
	NameTA       string    `json:"Parking_name_ta"`
	Route        string    `json:"Route"`
	RouteEN      string    `json:"Route_en"`
	Available    bool      `json:"IsParkingAvailable"`
	Capacity     flexNum   `json:"TotalCapacity"`
	Current      flexNum   `json:"Current_Vehicle"`
	Occupancy    *flexNum  `json:"Occupancy_Percent"`
	NotesEN      string    `json:"Notes_en"`
	NotesTA      string    `json:"Notes_ta"`
	In           flexNum   `json:"CurrentIn"`
	Out          flexNum   `json:"CurrentOut"`
	Latitude     flexNum   `json:"Latitude"`
	Longitude    flexNum   `json:"Longitude"`
	LocationLink string    `json:"Location_Link"`
}

type rawSummary struct {
	TotalVehicles    flexNum `json:"total_vehicles"`
	TotalCapacity    flexNum `json:"total_capacity"`
	OccupancyPercent flexNum `json:"occupancy_percent"`
}

type rawHistory struct {
	LotName  string       `json:"lotName"`
	Datasets []rawDataset `json:"datasets"`
	Error    string       `json:"error"`
}

type rawDataset struct {
	Label       string     `json:"label"`
	Data        []rawPoint `json:"data"`
	BorderColor string     `json:"borderColor"`
	Fill        bool       `json:"fill"`
	Tension     flexNum    `json:"tension"`
	PointRadius flexNum    `json:"pointRadius"`
	BorderWidth flexNum    `json:"borderWidth"`
}

type rawPoint struct {
	X string  `json:"x"`
	Y flexNum `json:"y"`
}

// flexNum accepts a JSON number, a numeric string, or null. Anything
// malformed decodes to zero instead of failing the whole payload.
type flexNum float64

func (f *flexNum) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = 0
		return nil
	}
	*f = flexNum(v)
	return nil
}

// nonNegInt validates a raw numeric field: malformed and negative
// values both become zero so they never reach the percentage math.
func nonNegInt(f flexNum) int {
	if f < 0 {
		return 0
	}
	return int(f)
}

func occupancyPercent(current, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(current) / float64(capacity) * 100
}

// Timestamp layouts the feed has used, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeSnapshot(raw *rawSnapshot, now time.Time) *models.FleetSnapshot {
	rawLots := raw.Lots
	if len(rawLots) == 0 {
		rawLots = raw.Data
	}
	if len(rawLots) == 0 {
		rawLots = raw.RouteLots
	}

	snap := &models.FleetSnapshot{
		Lots:        make([]models.LotSnapshot, 0, len(rawLots)),
		LastUpdated: now,
	}
	if t, ok := parseTime(raw.LastUpdated); ok {
		snap.LastUpdated = t
	}

	for _, rl := range rawLots {
		lot, ok := normalizeLot(rl)
		if !ok {
			continue
		}
		snap.Lots = append(snap.Lots, lot)
	}

	for _, rl := range append(raw.SpecialLots, raw.TwoWheeler...) {
		id := strings.ToLower(strings.TrimSpace(rl.ID))
		if id == "" {
			continue
		}
		snap.SpecialLots = append(snap.SpecialLots, models.SpecialLot{
			ID:              id,
			NameEN:          strings.TrimSpace(rl.NameEN),
			NameTA:          strings.TrimSpace(rl.NameTA),
			CurrentVehicles: nonNegInt(rl.Current),
			TotalCapacity:   nonNegInt(rl.Capacity),
		})
	}

	if len(raw.RouteSummary) > 0 {
		snap.RouteSummary = make(map[string]models.RouteAggregate, len(raw.RouteSummary))
		for name, rs := range raw.RouteSummary {
			cur := nonNegInt(rs.TotalVehicles)
			capacity := nonNegInt(rs.TotalCapacity)
			snap.RouteSummary[name] = models.RouteAggregate{
				Route:            name,
				CurrentVehicles:  cur,
				TotalCapacity:    capacity,
				OccupancyPercent: occupancyPercent(cur, capacity),
			}
		}
	}

	return snap
}

func normalizeLot(rl rawLot) (models.LotSnapshot, bool) {
	id := strings.ToLower(strings.TrimSpace(rl.ID))
	if id == "" {
		return models.LotSnapshot{}, false
	}

	current := nonNegInt(rl.Current)
	capacity := nonNegInt(rl.Capacity)

	// prefer the supplied percent but never trust a negative one;
	// derive when absent
	percent := occupancyPercent(current, capacity)
	if rl.Occupancy != nil && *rl.Occupancy >= 0 {
		percent = float64(*rl.Occupancy)
	}

	route := strings.TrimSpace(rl.RouteEN)
	if route == "" {
		route = strings.TrimSpace(rl.Route)
	}

	nameEN := strings.TrimSpace(rl.NameEN)
	if nameEN == "" {
		nameEN = "Unknown Lot"
	}
	nameTA := strings.TrimSpace(rl.NameTA)
	if nameTA == "" {
		nameTA = nameEN
	}
	notesEN := strings.TrimSpace(rl.NotesEN)
	notesTA := strings.TrimSpace(rl.NotesTA)
	if notesTA == "" {
		notesTA = notesEN
	}

	link := strings.TrimSpace(rl.LocationLink)
	if link == "#" {
		link = ""
	}

	return models.LotSnapshot{
		ID:               id,
		NameEN:           nameEN,
		NameTA:           nameTA,
		Route:            route,
		CurrentVehicles:  current,
		TotalCapacity:    capacity,
		Available:        rl.Available,
		OccupancyPercent: percent,
		NotesEN:          notesEN,
		NotesTA:          notesTA,
		CurrentIn:        nonNegInt(rl.In),
		CurrentOut:       nonNegInt(rl.Out),
		Latitude:         float64(rl.Latitude),
		Longitude:        float64(rl.Longitude),
		LocationLink:     link,
	}, true
}

// normalizeDatasets parses point timestamps, drops unparseable points
// and returns each series sorted by time.
func normalizeDatasets(raw []rawDataset) []models.ChartDataset {
	out := make([]models.ChartDataset, 0, len(raw))
	for _, rd := range raw {
		ds := models.ChartDataset{
			Label:       rd.Label,
			Data:        make([]models.ChartPoint, 0, len(rd.Data)),
			BorderColor: rd.BorderColor,
			Fill:        rd.Fill,
			Tension:     float64(rd.Tension),
			PointRadius: float64(rd.PointRadius),
			BorderWidth: float64(rd.BorderWidth),
		}
		for _, rp := range rd.Data {
			t, ok := parseTime(rp.X)
			if !ok {
				continue
			}
			ds.Data = append(ds.Data, models.ChartPoint{X: t, Y: float64(rp.Y)})
		}
		sort.Slice(ds.Data, func(i, j int) bool { return ds.Data[i].X.Before(ds.Data[j].X) })
		out = append(out, ds)
	}
	return out
}
