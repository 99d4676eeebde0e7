package services

import (
	"fmt"
	"sort"

	"github.com/Narayanansankar/ParkingDashboard/internal/config"
	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

// SortLots returns a copy ordered by descending occupancy percent.
// Ties break by lot ID ascending so repeated refreshes render the
// same order; sorting is idempotent.
func SortLots(lots []models.LotSnapshot) []models.LotSnapshot {
	out := make([]models.LotSnapshot, len(lots))
	copy(out, lots)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccupancyPercent != out[j].OccupancyPercent {
			return out[i].OccupancyPercent > out[j].OccupancyPercent
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BuildCard renders one lot into its card view model for a locale.
// Optional affordances (note, location link) only appear when the
// underlying field is present; the history action is always offered.
func BuildCard(lot models.LotSnapshot, columnClass, locale string) models.LotCard {
	l := labelsFor(locale)

	title := lot.NameEN
	note := lot.NotesEN
	if locale == "ta" {
		title = lot.NameTA
		note = lot.NotesTA
	}

	availabilityLabel := l.Closed
	availabilityClass := "status-unavailable"
	if lot.Available {
		availabilityLabel = l.Available
		availabilityClass = "status-available"
	}

	tier := SeverityTier(lot.OccupancyPercent)
	return models.LotCard{
		ID:                lot.ID,
		Title:             title,
		AvailabilityLabel: availabilityLabel,
		AvailabilityClass: availabilityClass,
		Available:         lot.Available,
		OccupancyText: fmt.Sprintf("%s: %s / %s", l.Occupancy,
			FormatCount(lot.CurrentVehicles, locale), FormatCount(lot.TotalCapacity, locale)),
		OccupancyPercent: lot.OccupancyPercent,
		BarWidthPercent:  BarWidth(lot.OccupancyPercent),
		BarLabel:         fmt.Sprintf("%d%%", RoundPercent(lot.OccupancyPercent)),
		BarClass:         tier.BarClass(),
		Tier:             tier,
		Note:             note,
		HistoryID:        lot.ID,
		HistoryLabel:     l.ViewHistory,
		LocationLink:     lot.LocationLink,
		ColumnClass:      columnClass,
	}
}

// SummaryBarFor renders an aggregate as a progress bar view model.
func SummaryBarFor(label string, agg models.RouteAggregate) models.SummaryBar {
	tier := SeverityTier(agg.OccupancyPercent)
	return models.SummaryBar{
		Label:            label,
		CurrentVehicles:  agg.CurrentVehicles,
		TotalCapacity:    agg.TotalCapacity,
		OccupancyPercent: agg.OccupancyPercent,
		BarWidthPercent:  BarWidth(agg.OccupancyPercent),
		BarLabel:         fmt.Sprintf("%d%%", RoundPercent(agg.OccupancyPercent)),
		BarClass:         tier.BarClass(),
		Tier:             tier,
	}
}

var otherRouteNames = map[string]string{"en": "Other", "ta": "மற்றவை"}

// BuildRouteGroups buckets the sorted lots into the configured routes
// plus a trailing Other group, each with its summary bar and cards.
// Empty configured routes still appear (the section header renders
// with a zero bar); Other only appears when something landed in it.
func BuildRouteGroups(lots []models.LotSnapshot, routes []config.Route, locale string) []models.RouteGroup {
	sorted := SortLots(lots)
	_, aggs := AggregateRoutes(lots, routes)

	aggByRoute := make(map[string]models.RouteAggregate, len(aggs))
	for _, a := range aggs {
		aggByRoute[a.Route] = a
	}

	cardsByRoute := make(map[string][]models.LotCard)
	for _, lot := range sorted {
		code := MatchRoute(routes, lot.Route)
		columnClass := "col-12"
		for _, r := range routes {
			if r.Code == code && r.Columns != "" {
				columnClass = r.Columns
			}
		}
		cardsByRoute[code] = append(cardsByRoute[code], BuildCard(lot, columnClass, locale))
	}

	l := labelsFor(locale)
	groups := make([]models.RouteGroup, 0, len(routes)+1)
	for _, r := range routes {
		name := r.Name(locale)
		groups = append(groups, models.RouteGroup{
			Route:   r.Code,
			Name:    name,
			Summary: SummaryBarFor(fmt.Sprintf("%s: %s", l.RouteOccupancy, name), aggByRoute[r.Code]),
			Cards:   cardsByRoute[r.Code],
		})
	}
	if cards := cardsByRoute[OtherRoute]; len(cards) > 0 {
		name := otherRouteNames["en"]
		if n, ok := otherRouteNames[locale]; ok {
			name = n
		}
		groups = append(groups, models.RouteGroup{
			Route:   OtherRoute,
			Name:    name,
			Summary: SummaryBarFor(fmt.Sprintf("%s: %s", l.RouteOccupancy, name), aggByRoute[OtherRoute]),
			Cards:   cards,
		})
	}
	return groups
}
