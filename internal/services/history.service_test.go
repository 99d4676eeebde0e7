package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Narayanansankar/ParkingDashboard/internal/models"
	"github.com/Narayanansankar/ParkingDashboard/internal/upstream"
)

func freshRegistry(t *testing.T) *chartRegistry {
	t.Helper()
	old := charts
	charts = &chartRegistry{slots: map[string]*chartSlot{
		SlotOverall: {},
		SlotLot:     {},
	}}
	t.Cleanup(func() { charts = old })
	return charts
}

func TestChartSlotDiscardsSupersededResponse(t *testing.T) {
	r := freshRegistry(t)

	// open lot A, then open lot B before A's response arrives
	tokenA := r.begin(SlotLot, "a")
	tokenB := r.begin(SlotLot, "b")

	dataB := []models.ChartDataset{{Label: "B"}}
	require.True(t, r.replace(SlotLot, tokenB, "Lot B", dataB))

	// A's stale response must not overwrite B's chart
	dataA := []models.ChartDataset{{Label: "A"}}
	assert.False(t, r.replace(SlotLot, tokenA, "Lot A", dataA))

	datasets, lotName, errMsg := r.current(SlotLot)
	assert.Equal(t, "Lot B", lotName)
	require.Len(t, datasets, 1)
	assert.Equal(t, "B", datasets[0].Label)
	assert.Empty(t, errMsg)
}

func TestChartSlotLateFailureIgnored(t *testing.T) {
	r := freshRegistry(t)

	tokenA := r.begin(SlotLot, "a")
	tokenB := r.begin(SlotLot, "b")
	require.True(t, r.replace(SlotLot, tokenB, "Lot B", []models.ChartDataset{{Label: "B"}}))

	assert.False(t, r.fail(SlotLot, tokenA, "timeout"))
	_, lotName, errMsg := r.current(SlotLot)
	assert.Equal(t, "Lot B", lotName)
	assert.Empty(t, errMsg)
}

func TestChartSlotFailureDisposesChart(t *testing.T) {
	r := freshRegistry(t)

	token := r.begin(SlotLot, "a")
	require.True(t, r.replace(SlotLot, token, "Lot A", []models.ChartDataset{{Label: "A"}}))

	token = r.begin(SlotLot, "a")
	require.True(t, r.fail(SlotLot, token, "upstream gone"))

	datasets, _, errMsg := r.current(SlotLot)
	assert.Nil(t, datasets) // prior chart released, only the error remains
	assert.Equal(t, "upstream gone", errMsg)
}

func TestLoadLotHistoryInstallsCurrentResponse(t *testing.T) {
	freshRegistry(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lotName": "Bus Stand", "datasets": [
			{"label": "Occupancy (%)", "data": [{"x": "` + time.Now().Format(time.RFC3339) + `", "y": 61}]}
		]}`))
	}))
	defer srv.Close()

	InitHistoryService(upstream.NewClient(srv.URL, 5*time.Second), 24*time.Hour)

	history, installed, err := LoadLotHistory(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, installed)
	assert.Equal(t, "Bus Stand", history.LotName)

	current, errMsg := CurrentLotHistory()
	require.NotNil(t, current)
	assert.Empty(t, errMsg)
	assert.Equal(t, "Bus Stand", current.LotName)
}

func TestLoadLotHistoryFailureLeavesErrorInSlot(t *testing.T) {
	freshRegistry(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	InitHistoryService(upstream.NewClient(srv.URL, 5*time.Second), 24*time.Hour)

	_, installed, err := LoadLotHistory(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, installed)

	current, errMsg := CurrentLotHistory()
	assert.Nil(t, current)
	assert.NotEmpty(t, errMsg)
}

func TestOverallHistoryFetchesOnFirstRequest(t *testing.T) {
	freshRegistry(t)
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"datasets": [{"label": "Thoothukudi Vehicle Count",
			"data": [{"x": "` + time.Now().Format(time.RFC3339) + `", "y": 42}]}]}`))
	}))
	defer srv.Close()

	InitHistoryService(upstream.NewClient(srv.URL, 5*time.Second), 24*time.Hour)

	datasets, errMsg := OverallHistory(context.Background())
	assert.Empty(t, errMsg)
	require.Len(t, datasets, 1)
	assert.Equal(t, 1, calls)

	// second request serves the slot without refetching
	datasets, _ = OverallHistory(context.Background())
	require.Len(t, datasets, 1)
	assert.Equal(t, 1, calls)
}

func TestTrimToWindow(t *testing.T) {
	now := time.Now()
	datasets := []models.ChartDataset{{
		Label: "x",
		Data: []models.ChartPoint{
			{X: now.Add(-30 * time.Hour), Y: 1},
			{X: now.Add(-2 * time.Hour), Y: 2},
			{X: now, Y: 3},
		},
	}}

	trimmed := trimToWindow(datasets, 24*time.Hour)
	require.Len(t, trimmed, 1)
	require.Len(t, trimmed[0].Data, 2)
	assert.Equal(t, 2.0, trimmed[0].Data[0].Y)

	// original slice untouched
	assert.Len(t, datasets[0].Data, 3)
}
