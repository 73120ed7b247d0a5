// Package service contains the service layer for the Instruments Catalog API
package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marketbots/instrumentsapi/internal/catalog"
	"github.com/marketbots/instrumentsapi/internal/config"
	"github.com/marketbots/instrumentsapi/internal/fetcher"
	"github.com/marketbots/instrumentsapi/internal/metrics"
	"github.com/marketbots/instrumentsapi/pkg/utils/zaplogger"
)

// ErrCatalogNotReady is returned by lookups before the first successful
// refresh. It is distinct from "searched and found nothing", which is a
// normal empty result.
var ErrCatalogNotReady = errors.New("instrument catalog not yet populated")

// ErrRefreshInProgress is returned when a refresh trigger arrives while a
// prior cycle is still running. The trigger is a no-op.
var ErrRefreshInProgress = errors.New("catalog refresh already in progress")

// CatalogService maintains the in-memory instrument catalog: it runs the
// fetch, decompress, parse, swap refresh pipeline and serves lookups against
// whatever snapshot is currently active.
type CatalogService struct {
	cfg       *config.Config
	store     *catalog.Store
	fetcher   *fetcher.Fetcher
	metrics   *metrics.Metrics
	publisher *PublishService

	// refreshing is the scheduler state flag: false=Idle, true=Refreshing.
	// CompareAndSwap guarantees at most one refresh cycle in flight.
	refreshing atomic.Bool

	mu            sync.Mutex
	lastAttemptAt time.Time
	lastError     string
}

// NewCatalogService creates a new catalog service. publisher may be nil when
// refresh event publishing is disabled.
func NewCatalogService(cfg *config.Config, m *metrics.Metrics, publisher *PublishService) *CatalogService {
	return &CatalogService{
		cfg:       cfg,
		store:     catalog.NewStore(),
		fetcher:   fetcher.New(cfg.FetchTimeout()),
		metrics:   m,
		publisher: publisher,
	}
}

// Refresh runs one full refresh cycle and returns the record count of the new
// catalog. A failure at any stage aborts only this cycle: the previously
// active catalog, if any, stays in place untouched. A trigger while a cycle
// is already running returns ErrRefreshInProgress without side effects.
func (s *CatalogService) Refresh() (int, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.metrics.RefreshTotal.WithLabelValues("skipped").Inc()
		return 0, ErrRefreshInProgress
	}
	defer s.refreshing.Store(false)

	start := time.Now()
	count, err := s.refreshOnce(context.Background())
	elapsed := time.Since(start)

	s.mu.Lock()
	s.lastAttemptAt = start
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	result := refreshResult(err)
	if err != nil {
		zaplogger.Error("Catalog refresh failed", zaplogger.Fields{
			"result":   result,
			"error":    err.Error(),
			"duration": elapsed.String(),
		})
	} else {
		zaplogger.Info("Catalog refreshed", zaplogger.Fields{
			"instruments": count,
			"duration":    elapsed.String(),
		})
	}
	s.metrics.RefreshTotal.WithLabelValues(result).Inc()
	s.metrics.RefreshDur.Observe(elapsed.Seconds())
	if err == nil {
		s.metrics.CatalogInstruments.Set(float64(count))
		s.metrics.LastRefreshUnix.Set(float64(start.Unix()))
	}

	s.publisher.PublishRefreshEvent(RefreshEvent{
		Status:      result,
		Instruments: count,
		DurationMs:  elapsed.Milliseconds(),
		Error:       errString(err),
		Timestamp:   start,
	})

	return count, err
}

// refreshOnce runs the pipeline stages in order. The store is swapped only
// after the parse fully succeeded, so readers never observe partial data.
func (s *CatalogService) refreshOnce(ctx context.Context) (int, error) {
	body, err := s.fetcher.Fetch(ctx, s.cfg.CatalogURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	stream, err := fetcher.Decompress(body)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	// the payload is a single JSON array, not self-delimiting per record,
	// so it has to be materialized in full before parsing
	data, err := io.ReadAll(stream)
	if err != nil {
		return 0, err
	}

	cat, err := catalog.Parse(data)
	if err != nil {
		return 0, err
	}

	s.store.Swap(cat)
	return cat.Len(), nil
}

// FindImmediateOption returns the nearest-expiry instrument matching the
// asset symbol, strike and option type. Symbol and type are matched
// case-insensitively, the strike exactly. A nil record with a nil error means
// no instrument matched; ErrCatalogNotReady means no catalog has been
// populated yet.
func (s *CatalogService) FindImmediateOption(assetSymbol string, strikePrice float64, optionType string) (*catalog.InstrumentModel, error) {
	cat := s.store.Current()
	if cat == nil {
		s.metrics.LookupsTotal.WithLabelValues("not_ready").Inc()
		return nil, ErrCatalogNotReady
	}
	record := cat.FindImmediateOption(assetSymbol, strikePrice, optionType)
	if record == nil {
		s.metrics.LookupsTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	s.metrics.LookupsTotal.WithLabelValues("hit").Inc()
	return record, nil
}

// IsPopulated reports whether at least one refresh cycle has succeeded.
func (s *CatalogService) IsPopulated() bool {
	return s.store.IsPopulated()
}

// CatalogStatus describes the state of the active catalog for the API.
type CatalogStatus struct {
	Populated     bool   `json:"populated"`
	Instruments   int    `json:"instruments"`
	RefreshedAt   string `json:"refreshed_at,omitempty"`
	LastAttemptAt string `json:"last_attempt_at,omitempty"`
	LastError     string `json:"last_error,omitempty"`
}

// Status returns the current catalog status.
func (s *CatalogService) Status() CatalogStatus {
	status := CatalogStatus{}
	if cat := s.store.Current(); cat != nil {
		status.Populated = true
		status.Instruments = cat.Len()
		status.RefreshedAt = cat.FetchedAt().Format(time.RFC3339)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastAttemptAt.IsZero() {
		status.LastAttemptAt = s.lastAttemptAt.Format(time.RFC3339)
	}
	status.LastError = s.lastError
	return status
}

// refreshResult maps a refresh outcome to its metric and event label.
func refreshResult(err error) string {
	if err == nil {
		return "success"
	}
	var netErr *fetcher.NetworkError
	var gzErr *fetcher.DecompressionError
	var parseErr *catalog.ParseError
	switch {
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &gzErr):
		return "decompression_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "error"
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
