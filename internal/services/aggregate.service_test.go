package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Narayanansankar/ParkingDashboard/internal/config"
	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

func testRoutes() []config.Route {
	return config.DefaultRoutes()
}

func TestAggregateRoutesWorkedExample(t *testing.T) {
	lots := []models.LotSnapshot{
		{ID: "1", Route: "Thoothukudi", CurrentVehicles: 80, TotalCapacity: 100},
		{ID: "2", Route: "Thoothukudi", CurrentVehicles: 10, TotalCapacity: 100},
		{ID: "3", Route: "Unknown", CurrentVehicles: 5, TotalCapacity: 10},
	}

	overall, byRoute := AggregateRoutes(lots, testRoutes())

	assert.Equal(t, 95, overall.CurrentVehicles)
	assert.Equal(t, 210, overall.TotalCapacity)
	assert.InDelta(t, 45.238, overall.OccupancyPercent, 0.001)

	require.Len(t, byRoute, 5) // four configured routes + Other
	tut := byRoute[0]
	assert.Equal(t, "TUT", tut.Route)
	assert.Equal(t, 90, tut.CurrentVehicles)
	assert.Equal(t, 200, tut.TotalCapacity)
	assert.InDelta(t, 45.0, tut.OccupancyPercent, 1e-9)

	other := byRoute[4]
	assert.Equal(t, OtherRoute, other.Route)
	assert.Equal(t, 5, other.CurrentVehicles)
	assert.Equal(t, 10, other.TotalCapacity)
}

func TestOverallIndependentOfBucketing(t *testing.T) {
	lots := []models.LotSnapshot{
		{ID: "1", Route: "NoSuchRoute", CurrentVehicles: 3, TotalCapacity: 6},
		{ID: "2", Route: "", CurrentVehicles: 4, TotalCapacity: 8},
	}

	overall, byRoute := AggregateRoutes(lots, testRoutes())
	assert.Equal(t, 7, overall.CurrentVehicles)
	assert.Equal(t, 14, overall.TotalCapacity)

	// unmatched lots land in Other, not nowhere
	other := byRoute[len(byRoute)-1]
	require.Equal(t, OtherRoute, other.Route)
	assert.Equal(t, 7, other.CurrentVehicles)
}

func TestAggregateZeroCapacity(t *testing.T) {
	overall, _ := AggregateRoutes([]models.LotSnapshot{
		{ID: "1", Route: "TUT", CurrentVehicles: 5, TotalCapacity: 0},
	}, testRoutes())
	assert.Equal(t, 0.0, overall.OccupancyPercent)
}

func TestAggregateEmptyInput(t *testing.T) {
	overall, byRoute := AggregateRoutes(nil, testRoutes())
	assert.Equal(t, 0, overall.TotalCapacity)
	assert.Equal(t, 0.0, overall.OccupancyPercent)
	assert.Len(t, byRoute, 4) // no Other bucket when nothing fell in it
}

func TestAggregateNegativeCountsTreatedAsZero(t *testing.T) {
	overall, _ := AggregateRoutes([]models.LotSnapshot{
		{ID: "1", Route: "TUT", CurrentVehicles: -10, TotalCapacity: 100},
	}, testRoutes())
	assert.Equal(t, 0, overall.CurrentVehicles)
	assert.Equal(t, 100, overall.TotalCapacity)
}

func TestMatchRoute(t *testing.T) {
	routes := testRoutes()
	assert.Equal(t, "TUT", MatchRoute(routes, "TUT"))
	assert.Equal(t, "TUT", MatchRoute(routes, "thoothukudi"))
	assert.Equal(t, "TUT", MatchRoute(routes, "  Thoothukudi  "))
	assert.Equal(t, "TIN", MatchRoute(routes, "tin"))
	assert.Equal(t, OtherRoute, MatchRoute(routes, "somewhere else"))
	assert.Equal(t, OtherRoute, MatchRoute(routes, ""))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 50.0, Percent(1, 2), 1e-9)
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 0.0, Percent(5, -1))
	assert.InDelta(t, 120.0, Percent(120, 100), 1e-9)
}
