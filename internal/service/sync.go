package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/contentclicks/dashboard/internal/domain"
	"github.com/contentclicks/dashboard/internal/logger"
)

// MetricsAPI is the slice of the backend client the synchronizer depends on.
type MetricsAPI interface {
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	GetMetrics(ctx context.Context, customerID string) (domain.MetricsSnapshot, error)
	GetTopPerformers(ctx context.Context, customerID, medium string, limit int) ([]domain.TopPerformer, error)
}

// SnapshotStore persists the last synchronized view per customer.
type SnapshotStore interface {
	Save(ctx context.Context, snap *domain.ViewSnapshot) error
	Get(ctx context.Context, customerID string) (*domain.ViewSnapshot, error)
}

// SyncService is the dashboard synchronizer: it fetches the customer record
// and the full metrics snapshot, derives the KPI cards and top-performer
// lists, and replaces the rendered view wholesale. Refresh is idempotent and
// safe under overlapping invocation; the view store's sequence stamps make
// the last-started fetch win.
//
// SyncService also implements Notifier, turning poller progress and outcomes
// into the view's banner state.
type SyncService struct {
	backend   MetricsAPI
	views     *ViewStore
	snapshots SnapshotStore // nil disables persistence
	logger    *logger.Logger
	topLimit  int
}

// SyncConfig holds configuration for the synchronizer.
type SyncConfig struct {
	TopPerformerLimit int
}

// NewSyncService creates a new dashboard synchronizer.
func NewSyncService(backend MetricsAPI, views *ViewStore, snapshots SnapshotStore, log *logger.Logger, cfg *SyncConfig) *SyncService {
	limit := 10
	if cfg != nil && cfg.TopPerformerLimit > 0 {
		limit = cfg.TopPerformerLimit
	}
	return &SyncService{
		backend:   backend,
		views:     views,
		snapshots: snapshots,
		logger:    log,
		topLimit:  limit,
	}
}

// Views exposes the render target.
func (s *SyncService) Views() *ViewStore {
	return s.views
}

// Refresh rebuilds the customer's view from the backend and swaps it in.
func (s *SyncService) Refresh(ctx context.Context, customerID string) error {
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldCustomerID: customerID,
		logger.FieldComponent:  "sync",
	})
	start := time.Now()

	// Stamp before fetching: if a newer refresh starts while this one is in
	// flight, this one must lose.
	seq := s.views.NextSeq()

	customer, err := s.backend.GetCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	metrics, err := s.backend.GetMetrics(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to fetch metrics: %w", err)
	}

	view := &domain.CustomerView{
		Customer:      *customer,
		Cards:         BuildCards(metrics),
		TopPerformers: s.fetchTopPerformers(ctx, customerID),
		SyncedAt:      time.Now(),
		Seq:           seq,
	}

	if !s.views.Replace(view) {
		logger.CtxDebug(ctx, "Dropping stale refresh result (seq %d)", seq)
		return nil
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      len(view.Cards),
	}).Info(ctx, "View synchronized")

	s.persist(ctx, view)
	return nil
}

// fetchTopPerformers collects top performers per medium. Failures here are
// non-fatal: the dashboard renders without the affected list.
func (s *SyncService) fetchTopPerformers(ctx context.Context, customerID string) map[string][]domain.TopPerformer {
	out := make(map[string][]domain.TopPerformer)
	for _, medium := range Mediums() {
		performers, err := s.backend.GetTopPerformers(ctx, customerID, medium, s.topLimit)
		if err != nil {
			logger.CtxWarn(ctx, "Failed to fetch top performers for %q: %v", medium, err)
			continue
		}
		if len(performers) > 0 {
			out[medium] = performers
		}
	}
	return out
}

// persist writes the replaced view to the snapshot cache, best effort.
func (s *SyncService) persist(ctx context.Context, view *domain.CustomerView) {
	if s.snapshots == nil {
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to encode view snapshot: %v", err)
		return
	}
	snap := &domain.ViewSnapshot{
		CustomerID: view.Customer.ID,
		Payload:    payload,
		SyncedAt:   view.SyncedAt,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		logger.CtxWarn(ctx, "Failed to persist view snapshot: %v", err)
	}
}

// CachedView loads the persisted view for a customer and warms the store
// with it. Used when the dashboard is asked for a customer it has not
// synchronized since startup.
func (s *SyncService) CachedView(ctx context.Context, customerID string) (*domain.CustomerView, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("snapshot cache disabled")
	}
	snap, err := s.snapshots.Get(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load view snapshot: %w", err)
	}
	var view domain.CustomerView
	if err := json.Unmarshal(snap.Payload, &view); err != nil {
		return nil, fmt.Errorf("failed to decode view snapshot: %w", err)
	}
	view.Seq = 0 // cached data never outranks a live refresh
	s.views.Seed(&view)
	return &view, nil
}

// OnProgress implements Notifier: server progress text becomes the banner.
func (s *SyncService) OnProgress(customerID, message string) {
	s.views.SetBanner(customerID, domain.ProgressBanner{
		Level:   domain.BannerInfo,
		Message: message,
	})
}

// OnOutcome implements Notifier: terminal session results set the banner
// level. Timeouts are warnings, not errors; partial data stays visible.
func (s *SyncService) OnOutcome(customerID string, outcome Outcome, message string) {
	level := domain.BannerInfo
	switch outcome {
	case OutcomeCompleted:
		level = domain.BannerSuccess
	case OutcomeErrored:
		level = domain.BannerError
	case OutcomeTimedOut:
		level = domain.BannerWarning
	}
	s.views.SetBanner(customerID, domain.ProgressBanner{
		Level:   level,
		Message: message,
	})
}
