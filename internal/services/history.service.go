package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Narayanansankar/ParkingDashboard/internal/models"
	"github.com/Narayanansankar/ParkingDashboard/internal/upstream"
)

// Chart slots. Each slot owns at most one live series set at a time;
// installing a new one disposes the old one, so repeated opens cannot
// accumulate chart state.
const (
	SlotOverall = "overall"
	SlotLot     = "lot"
)

type chartSlot struct {
	token    uint64 // latest issued request token for this slot
	lotID    string
	lotName  string
	datasets []models.ChartDataset
	err      string
}

// chartRegistry is the explicit ownership contract for chart data:
// begin issues a token bound to one request, and only the response
// carrying the current token may replace the slot's contents. A
// response arriving after the slot moved on is discarded.
type chartRegistry struct {
	mu    sync.Mutex
	slots map[string]*chartSlot
}

var charts = &chartRegistry{slots: map[string]*chartSlot{
	SlotOverall: {},
	SlotLot:     {},
}}

func (r *chartRegistry) begin(slot, lotID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slots[slot]
	s.token++
	s.lotID = lotID
	return s.token
}

func (r *chartRegistry) replace(slot string, token uint64, lotName string, datasets []models.ChartDataset) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slots[slot]
	if token != s.token {
		return false
	}
	s.lotName = lotName
	s.datasets = datasets
	s.err = ""
	return true
}

func (r *chartRegistry) fail(slot string, token uint64, msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slots[slot]
	if token != s.token {
		return false
	}
	s.datasets = nil
	s.err = msg
	return true
}

func (r *chartRegistry) current(slot string) ([]models.ChartDataset, string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slots[slot]
	return s.datasets, s.lotName, s.err
}

// HistoryService fetches chart series from the upstream feed and owns
// the two chart slots.
type HistoryService struct {
	client *upstream.Client
	window time.Duration
}

var historyService *HistoryService

// InitHistoryService wires the upstream client into the chart slots.
func InitHistoryService(client *upstream.Client, window time.Duration) *HistoryService {
	historyService = &HistoryService{client: client, window: window}
	return historyService
}

// StartFleetHistoryLoop refreshes the fleet-wide chart on its own
// ticker, independent of the snapshot poll.
func StartFleetHistoryLoop(ctx context.Context, interval time.Duration) {
	hs := historyService
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		hs.refreshOverall(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				hs.refreshOverall(ctx)
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("fleet history loop started")
}

func (hs *HistoryService) refreshOverall(ctx context.Context) {
	token := charts.begin(SlotOverall, "")
	datasets, err := hs.client.FetchOverallHistory(ctx)
	if err != nil {
		if charts.fail(SlotOverall, token, err.Error()) {
			log.Error().Err(err).Msg("overall history poll failed")
		}
		return
	}
	datasets = trimToWindow(datasets, hs.window)
	if !charts.replace(SlotOverall, token, "", datasets) {
		log.Debug().Uint64("token", token).Msg("discarded stale overall history response")
		return
	}
	log.Info().Int("datasets", len(datasets)).Msg("overall history updated")
}

// OverallHistory returns the fleet-wide chart slot. When nothing has
// been loaded yet it fetches synchronously once.
func OverallHistory(ctx context.Context) ([]models.ChartDataset, string) {
	datasets, _, errMsg := charts.current(SlotOverall)
	if datasets == nil && errMsg == "" && historyService != nil {
		historyService.refreshOverall(ctx)
		datasets, _, errMsg = charts.current(SlotOverall)
	}
	return datasets, errMsg
}

// LoadLotHistory fetches one lot's occupancy series and installs it in
// the lot chart slot. The installed flag reports whether the response
// was still current when it arrived; a response for a lot the dialog
// has already moved away from is returned to its own caller but never
// replaces the newer chart.
func LoadLotHistory(ctx context.Context, lotID string) (*models.LotHistory, bool, error) {
	hs := historyService
	token := charts.begin(SlotLot, lotID)

	history, err := hs.client.FetchLotHistory(ctx, lotID)
	if err != nil {
		if charts.fail(SlotLot, token, err.Error()) {
			log.Error().Err(err).Str("lot_id", lotID).Msg("lot history fetch failed")
		}
		return nil, false, err
	}

	history.Datasets = trimToWindow(history.Datasets, hs.window)
	installed := charts.replace(SlotLot, token, history.LotName, history.Datasets)
	if !installed {
		log.Debug().Str("lot_id", lotID).Uint64("token", token).Msg("discarded superseded lot history response")
	}
	return history, installed, nil
}

// CurrentLotHistory returns whatever the lot slot currently shows.
func CurrentLotHistory() (*models.LotHistory, string) {
	datasets, lotName, errMsg := charts.current(SlotLot)
	if datasets == nil {
		return nil, errMsg
	}
	return &models.LotHistory{LotName: lotName, Datasets: datasets, YMax: 100}, errMsg
}

// trimToWindow drops points older than the trailing window.
func trimToWindow(datasets []models.ChartDataset, window time.Duration) []models.ChartDataset {
	if window <= 0 {
		return datasets
	}
	cutoff := time.Now().Add(-window)
	out := make([]models.ChartDataset, len(datasets))
	for i, ds := range datasets {
		kept := make([]models.ChartPoint, 0, len(ds.Data))
		for _, p := range ds.Data {
			if !p.X.Before(cutoff) {
				kept = append(kept, p)
			}
		}
		ds.Data = kept
		out[i] = ds
	}
	return out
}
