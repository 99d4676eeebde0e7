package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Narayanansankar/ParkingDashboard/internal/config"
	"github.com/Narayanansankar/ParkingDashboard/internal/models"
	"github.com/Narayanansankar/ParkingDashboard/internal/upstream"
)

// SnapshotCollector owns the current fleet snapshot between polls.
// Every fetch takes a sequence number before the request goes out and
// a commit is discarded when a newer one already landed, so a slow
// response can never overwrite fresher data.
type SnapshotCollector struct {
	client *upstream.Client
	cfg    *config.Config

	mu           sync.RWMutex
	nextSeq      uint64
	committedSeq uint64
	snap         *models.FleetSnapshot
	lastUpdated  time.Time
	lastErr      string
	stale        bool
}

var snapshotCollector *SnapshotCollector

// StartSnapshotCollector begins the periodic snapshot poll. The first
// fetch happens immediately, then every refresh interval until the
// context is cancelled.
func StartSnapshotCollector(ctx context.Context, client *upstream.Client, cfg *config.Config) *SnapshotCollector {
	sc := &SnapshotCollector{client: client, cfg: cfg}
	snapshotCollector = sc

	go func() {
		ticker := time.NewTicker(cfg.Refresh.Interval)
		defer ticker.Stop()

		sc.collect(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sc.collect(ctx)
			}
		}
	}()

	log.Info().Dur("interval", cfg.Refresh.Interval).Msg("snapshot collector started")
	return sc
}

func (sc *SnapshotCollector) collect(ctx context.Context) {
	seq := sc.issueSeq()
	snap, err := sc.client.FetchSnapshot(ctx)
	if err != nil {
		sc.fail(seq, err.Error())
		log.Error().Err(err).Uint64("seq", seq).Msg("snapshot poll failed, keeping last known good data")
		return
	}
	if !sc.commit(seq, snap) {
		log.Debug().Uint64("seq", seq).Msg("discarded stale snapshot response")
		return
	}
	log.Info().Uint64("seq", seq).Int("lots", len(snap.Lots)).Time("last_updated", snap.LastUpdated).Msg("snapshot updated")
	broadcastDashboard(sc.BuildDashboard(sc.cfg.Locale.Default))
}

func (sc *SnapshotCollector) issueSeq() uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.nextSeq++
	return sc.nextSeq
}

// commit installs a snapshot unless a newer fetch already committed.
func (sc *SnapshotCollector) commit(seq uint64, snap *models.FleetSnapshot) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if seq < sc.committedSeq {
		return false
	}
	sc.committedSeq = seq
	sc.snap = snap
	sc.lastUpdated = snap.LastUpdated
	sc.lastErr = ""
	sc.stale = false
	return true
}

// fail records a poll failure without touching the stored snapshot.
func (sc *SnapshotCollector) fail(seq uint64, msg string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if seq < sc.committedSeq {
		// a newer fetch already succeeded, nothing is stale
		return
	}
	sc.lastErr = msg
	sc.stale = sc.snap != nil
}

// Snapshot returns the last known good fleet snapshot, or nil before
// the first successful poll.
func (sc *SnapshotCollector) Snapshot() *models.FleetSnapshot {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.snap
}

// LotName resolves a lot ID against the current snapshot.
func (sc *SnapshotCollector) LotName(id, locale string) (string, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.snap == nil {
		return "", false
	}
	for _, lot := range sc.snap.Lots {
		if lot.ID == id {
			if locale == "ta" {
				return lot.NameTA, true
			}
			return lot.NameEN, true
		}
	}
	return "", false
}

// BuildDashboard renders the stored snapshot as a localized dashboard
// view. The whole view is rebuilt on every call; nothing is patched
// incrementally.
func (sc *SnapshotCollector) BuildDashboard(locale string) models.DashboardView {
	sc.mu.RLock()
	snap := sc.snap
	lastUpdated := sc.lastUpdated
	lastErr := sc.lastErr
	stale := sc.stale
	sc.mu.RUnlock()

	if locale == "" {
		locale = sc.cfg.Locale.Default
	}

	l := labelsFor(locale)
	view := models.DashboardView{
		Locale: locale,
		Stale:  stale,
		Error:  lastErr,
	}
	if snap == nil {
		view.Overall = SummaryBarFor(l.NoData, models.RouteAggregate{})
		return view
	}

	overall, _ := AggregateRoutes(snap.Lots, sc.cfg.Routes)
	view.LastUpdated = lastUpdated
	view.LastUpdatedText = FormatTimestamp(lastUpdated, locale)
	view.Freshness = FormatAge(lastUpdated)
	view.Overall = SummaryBarFor(l.Occupancy, overall)
	view.Routes = BuildRouteGroups(snap.Lots, sc.cfg.Routes, locale)

	for _, sp := range snap.SpecialLots {
		name := sp.NameEN
		if locale == "ta" && sp.NameTA != "" {
			name = sp.NameTA
		}
		view.SpecialLots = append(view.SpecialLots, models.SpecialLotView{
			ID:    sp.ID,
			Name:  name,
			Count: FormatCount(sp.CurrentVehicles, locale),
		})
	}
	return view
}

// BuildMapView renders the stored snapshot as map pins for a locale.
func (sc *SnapshotCollector) BuildMapView(locale string) models.MapView {
	sc.mu.RLock()
	snap := sc.snap
	lastUpdated := sc.lastUpdated
	stale := sc.stale
	sc.mu.RUnlock()

	if locale == "" {
		locale = sc.cfg.Locale.Default
	}

	view := models.MapView{Locale: locale, Stale: stale}
	if snap == nil {
		return view
	}

	view.LastUpdated = lastUpdated
	view.Lots = make([]models.MapLot, 0, len(snap.Lots))
	for _, lot := range snap.Lots {
		name := lot.NameEN
		if locale == "ta" && lot.NameTA != "" {
			name = lot.NameTA
		}
		view.Lots = append(view.Lots, models.MapLot{
			ID:               lot.ID,
			Name:             name,
			Route:            MatchRoute(sc.cfg.Routes, lot.Route),
			Available:        lot.Available,
			CurrentVehicles:  lot.CurrentVehicles,
			TotalCapacity:    lot.TotalCapacity,
			OccupancyPercent: lot.OccupancyPercent,
			Tier:             SeverityTier(lot.OccupancyPercent),
			CurrentIn:        lot.CurrentIn,
			CurrentOut:       lot.CurrentOut,
			Latitude:         lot.Latitude,
			Longitude:        lot.Longitude,
			LocationLink:     lot.LocationLink,
		})
	}
	return view
}

// CurrentMapView serves the map payload from the running collector.
func CurrentMapView(locale string) models.MapView {
	if snapshotCollector == nil {
		return models.MapView{Locale: locale}
	}
	return snapshotCollector.BuildMapView(locale)
}

// CurrentDashboard serves the dashboard view from the running collector.
func CurrentDashboard(locale string) models.DashboardView {
	if snapshotCollector == nil {
		return models.DashboardView{Locale: locale}
	}
	return snapshotCollector.BuildDashboard(locale)
}

// GetSnapshotCollector returns the running collector.
func GetSnapshotCollector() *SnapshotCollector {
	return snapshotCollector
}
