package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/domain"
	"github.com/couchcryptid/flood-monitor/internal/observability"
	"github.com/couchcryptid/flood-monitor/internal/snapshot"
	"github.com/jonboulle/clockwork"
)

// LoadErrorMessage is shown for every fetch or parse failure.
const LoadErrorMessage = "Failed to load flood data. Please try again later."

// Fetcher retrieves the current set of flood records from upstream.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.FloodRecord, error)
}

// Publisher forwards freshly fetched records to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, records []domain.FloodRecord, fetchedAt time.Time) error
}

// State is what the presentation layer renders. Loading takes precedence
// over Err, and Err over Records.
type State struct {
	Loading   bool
	Err       string
	Records   []domain.FloodRecord
	UpdatedAt time.Time
	FromCache bool
}

// Monitor keeps an in-memory copy of the flood records, seeded from the
// snapshot cache and refreshed on a fixed interval while Run is active.
type Monitor struct {
	fetcher   Fetcher
	cache     *snapshot.Cache
	publisher Publisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	interval  time.Duration

	refreshMu sync.Mutex // one fetch in flight at a time

	mu    sync.RWMutex
	state State
	ready atomic.Bool
}

// New creates a Monitor. The refresh interval equals the cache TTL. Pass a
// nil publisher to disable publishing and a nil clock for real time.
func New(f Fetcher, cache *snapshot.Cache, p Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Monitor{
		fetcher:   f,
		cache:     cache,
		publisher: p,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		interval:  cache.TTL(),
		state:     State{Loading: true},
	}
}

// CheckReadiness returns nil once records have been loaded from the cache
// or the feed, or an error describing why the service is not yet ready.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("flood data has not been loaded yet")
	}
	return nil
}

// State returns a copy of the current state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.state
	s.Records = slices.Clone(m.state.Records)
	return s
}

// Run activates the monitor: it serves a fresh cached snapshot or fetches,
// then refreshes every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started", "interval", m.interval)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	m.activate(ctx)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := m.Refresh(ctx); err != nil {
				m.logger.Debug("scheduled refresh did not complete", "error", err)
			}
		}
	}
}

// activate seeds state from the snapshot cache, fetching only when the
// cached entry is missing, expired or unreadable.
func (m *Monitor) activate(ctx context.Context) {
	entry, lookup, err := m.cache.Load(ctx)
	m.metrics.CacheLookups.WithLabelValues(string(lookup)).Inc()
	if err != nil {
		m.logger.Warn("snapshot cache unreadable, fetching", "lookup", lookup, "error", err)
	}

	if lookup == snapshot.LookupHit {
		m.logger.Info("using cached flood snapshot",
			"records", len(entry.Records),
			"age", entry.Age(m.clock.Now()),
		)
		m.setRecords(entry.Records, entry.CapturedAt, true)
		return
	}

	if err := m.Refresh(ctx); err != nil {
		m.logger.Debug("initial refresh did not complete", "error", err)
	}
}

// Refresh performs one fetch cycle. On success the snapshot cache and the
// in-memory records are replaced; on failure the cache is left untouched
// and the state carries LoadErrorMessage. A result that arrives after ctx
// is cancelled is discarded.
func (m *Monitor) Refresh(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.update(func(s *State) {
		s.Loading = true
		s.Err = ""
	})

	start := m.clock.Now()
	records, err := m.fetcher.Fetch(ctx)
	m.metrics.FetchDuration.Observe(m.clock.Since(start).Seconds())

	if ctxErr := ctx.Err(); ctxErr != nil {
		m.metrics.FetchRequests.WithLabelValues("discarded").Inc()
		m.logger.Info("discarding flood fetch after deactivation", "reason", ctxErr)
		return fmt.Errorf("refresh abandoned: %w", ctxErr)
	}

	if err != nil {
		m.metrics.FetchRequests.WithLabelValues("error").Inc()
		m.logger.Error("flood fetch failed", "error", err)
		m.update(func(s *State) {
			s.Loading = false
			s.Err = LoadErrorMessage
		})
		return fmt.Errorf("fetch flood data: %w", err)
	}
	m.metrics.FetchRequests.WithLabelValues("success").Inc()

	capturedAt := m.clock.Now()
	if entry, err := m.cache.Save(ctx, records); err != nil {
		m.metrics.CacheWrites.WithLabelValues("error").Inc()
		m.logger.Warn("snapshot cache write failed", "error", err)
	} else {
		m.metrics.CacheWrites.WithLabelValues("success").Inc()
		capturedAt = entry.CapturedAt
	}

	m.setRecords(records, capturedAt, false)
	m.logger.Info("flood data refreshed", "records", len(records))

	m.publish(ctx, records, capturedAt)
	return nil
}

func (m *Monitor) publish(ctx context.Context, records []domain.FloodRecord, fetchedAt time.Time) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.Publish(ctx, records, fetchedAt); err != nil {
		m.metrics.PublishErrors.Inc()
		m.logger.Warn("publish flood records failed", "error", err, "records", len(records))
	}
}

func (m *Monitor) setRecords(records []domain.FloodRecord, at time.Time, fromCache bool) {
	m.update(func(s *State) {
		s.Loading = false
		s.Err = ""
		s.Records = records
		s.UpdatedAt = at
		s.FromCache = fromCache
	})
	m.metrics.RecordsCurrent.Set(float64(len(records)))
	m.ready.Store(true)
}

func (m *Monitor) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	m.mu.Unlock()
}
