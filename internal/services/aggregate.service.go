package services

import (
	"strings"

	"github.com/Narayanansankar/ParkingDashboard/internal/config"
	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

// OtherRoute is the bucket for lots whose route matches no configured
// route. They still render and always count toward the overall total.
const OtherRoute = "OTHER"

// MatchRoute resolves a lot's raw route string (code or display name,
// any case, padded or not) to a configured route code, or OtherRoute.
func MatchRoute(routes []config.Route, raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range routes {
		if key == strings.ToLower(r.Code) || key == strings.ToLower(r.NameEN) {
			return r.Code
		}
	}
	return OtherRoute
}

// AggregateRoutes computes the overall occupancy aggregate plus one
// aggregate per configured route in configuration order, with a
// trailing Other bucket when any lot fell outside the known set.
// Single pass; the overall total covers every lot regardless of
// route bucketing.
func AggregateRoutes(lots []models.LotSnapshot, routes []config.Route) (models.RouteAggregate, []models.RouteAggregate) {
	type acc struct{ current, capacity int }
	byRoute := make(map[string]*acc, len(routes)+1)
	order := make([]string, 0, len(routes)+1)
	for _, r := range routes {
		byRoute[r.Code] = &acc{}
		order = append(order, r.Code)
	}
	other := &acc{}
	overall := acc{}

	for _, lot := range lots {
		current, capacity := lot.CurrentVehicles, lot.TotalCapacity
		if current < 0 {
			current = 0
		}
		if capacity < 0 {
			capacity = 0
		}
		overall.current += current
		overall.capacity += capacity

		code := MatchRoute(routes, lot.Route)
		if code == OtherRoute {
			other.current += current
			other.capacity += capacity
			continue
		}
		a := byRoute[code]
		a.current += current
		a.capacity += capacity
	}

	out := make([]models.RouteAggregate, 0, len(order)+1)
	for _, code := range order {
		a := byRoute[code]
		out = append(out, routeAggregate(code, a.current, a.capacity))
	}
	if other.current > 0 || other.capacity > 0 {
		out = append(out, routeAggregate(OtherRoute, other.current, other.capacity))
	}

	return routeAggregate("", overall.current, overall.capacity), out
}

func routeAggregate(route string, current, capacity int) models.RouteAggregate {
	return models.RouteAggregate{
		Route:            route,
		CurrentVehicles:  current,
		TotalCapacity:    capacity,
		OccupancyPercent: Percent(current, capacity),
	}
}

// Percent is the occupancy formula used everywhere: zero capacity
// yields zero, never NaN or Inf.
func Percent(current, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(current) / float64(capacity) * 100
}
