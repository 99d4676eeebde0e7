package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/parking-data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"last_updated": "2026-08-28 09:00:00",
			"data": [{"ParkingLotID": "p1", "Parking_name_en": "Temple West",
				"Route_en": "Tirunelveli", "Current_Vehicle": 30, "TotalCapacity": 60,
				"IsParkingAvailable": true}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	snap, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Lots, 1)
	assert.Equal(t, "p1", snap.Lots[0].ID)
	assert.InDelta(t, 50.0, snap.Lots[0].OccupancyPercent, 1e-9)
}

func TestFetchSnapshotUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchOverallHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/overall-history", r.URL.Path)
		w.Write([]byte(`{"datasets": [
			{"label": "Thoothukudi Vehicle Count", "borderColor": "#E91E63",
			 "data": [{"x": "2026-08-28T08:00:00", "y": 120}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	datasets, err := c.FetchOverallHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, "Thoothukudi Vehicle Count", datasets[0].Label)
	assert.Equal(t, "#E91E63", datasets[0].BorderColor)
	require.Len(t, datasets[0].Data, 1)
	assert.Equal(t, 120.0, datasets[0].Data[0].Y)
}

func TestFetchOverallHistoryErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "History data source not available"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.FetchOverallHistory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "History data source not available")
}

func TestFetchLotHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/parking-lot-history", r.URL.Path)
		require.Equal(t, "p1", r.URL.Query().Get("id"))
		w.Write([]byte(`{"lotName": "Temple West", "datasets": [
			{"label": "Occupancy (%)", "data": [{"x": "2026-08-28T08:00:00", "y": 55.5}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	history, err := c.FetchLotHistory(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Temple West", history.LotName)
	assert.Equal(t, 100.0, history.YMax)
	require.Len(t, history.Datasets, 1)
	assert.Equal(t, 55.5, history.Datasets[0].Data[0].Y)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchSnapshot(ctx)
	require.Error(t, err)
}
