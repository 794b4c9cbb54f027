package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/contentclicks/dashboard/internal/domain"
)

type fakeMetricsAPI struct {
	mu        sync.Mutex
	customer  *domain.Customer
	metrics   domain.MetricsSnapshot
	top       map[string][]domain.TopPerformer
	fetchGate chan struct{} // when set, GetCustomer blocks until closed

	customerErr error
	metricsErr  error
	topErr      error
}

func (f *fakeMetricsAPI) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	f.mu.Lock()
	gate := f.fetchGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	return f.customer, nil
}

func (f *fakeMetricsAPI) GetMetrics(ctx context.Context, customerID string) (domain.MetricsSnapshot, error) {
	if f.metricsErr != nil {
		return nil, f.metricsErr
	}
	return f.metrics, nil
}

func (f *fakeMetricsAPI) GetTopPerformers(ctx context.Context, customerID, medium string, limit int) ([]domain.TopPerformer, error) {
	if f.topErr != nil {
		return nil, f.topErr
	}
	return f.top[medium], nil
}

type fakeSnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]*domain.ViewSnapshot

	saveErr error
	getErr  error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{snaps: make(map[string]*domain.ViewSnapshot)}
}

func (f *fakeSnapshotStore) Save(ctx context.Context, snap *domain.ViewSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	f.snaps[snap.CustomerID] = snap
	f.mu.Unlock()
	return nil
}

func (f *fakeSnapshotStore) Get(ctx context.Context, customerID string) (*domain.ViewSnapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snaps[customerID]
	if !ok {
		return nil, fmt.Errorf("snapshot not found")
	}
	return snap, nil
}

func defaultMetricsAPI() *fakeMetricsAPI {
	return &fakeMetricsAPI{
		customer: &domain.Customer{ID: "cust-1", Name: "Acme", Industry: "retail"},
		metrics: domain.MetricsSnapshot{
			"email": {
				"engagement": {Name: "Open Rate", Value: 45.6, BenchmarkValue: 40, TimePeriodDays: 30},
			},
			"website": {
				"awareness": {Name: "Page Views", Value: 2300, BenchmarkValue: 2000, TimePeriodDays: 30},
			},
		},
		top: map[string][]domain.TopPerformer{
			"email": {{ItemTitle: "Spring Sale", MetricName: "opens", MetricValue: 1200}},
		},
	}
}

func TestSyncRefreshBuildsAndPersistsView(t *testing.T) {
	backend := defaultMetricsAPI()
	views := NewViewStore()
	snaps := newFakeSnapshotStore()
	svc := NewSyncService(backend, views, snaps, testLogger(), nil)

	if err := svc.Refresh(context.Background(), "cust-1"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	view, ok := views.Get("cust-1")
	if !ok {
		t.Fatal("Expected a synchronized view")
	}
	if view.Customer.Name != "Acme" {
		t.Errorf("Expected customer Acme, got %q", view.Customer.Name)
	}
	if len(view.Cards) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(view.Cards))
	}
	if len(view.TopPerformers["email"]) != 1 {
		t.Errorf("Expected 1 email top performer, got %d", len(view.TopPerformers["email"]))
	}

	snap, err := snaps.Get(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("Expected a persisted snapshot: %v", err)
	}
	var persisted domain.CustomerView
	if err := json.Unmarshal(snap.Payload, &persisted); err != nil {
		t.Fatalf("Persisted payload is not a view: %v", err)
	}
	if persisted.Customer.ID != "cust-1" {
		t.Errorf("Persisted view has wrong customer: %q", persisted.Customer.ID)
	}
}

func TestSyncRefreshFailsWhenBackendFails(t *testing.T) {
	backend := defaultMetricsAPI()
	backend.metricsErr = fmt.Errorf("backend unavailable")
	views := NewViewStore()
	svc := NewSyncService(backend, views, nil, testLogger(), nil)

	if err := svc.Refresh(context.Background(), "cust-1"); err == nil {
		t.Fatal("Expected error when metrics fetch fails")
	}
	if _, ok := views.Get("cust-1"); ok {
		t.Error("No view should be installed on a failed refresh")
	}
}

func TestSyncTopPerformerFailureIsNonFatal(t *testing.T) {
	backend := defaultMetricsAPI()
	backend.topErr = fmt.Errorf("timeout")
	views := NewViewStore()
	svc := NewSyncService(backend, views, nil, testLogger(), nil)

	if err := svc.Refresh(context.Background(), "cust-1"); err != nil {
		t.Fatalf("Refresh should tolerate top-performer failures: %v", err)
	}
	view, _ := views.Get("cust-1")
	if len(view.TopPerformers) != 0 {
		t.Errorf("Expected no top performers, got %v", view.TopPerformers)
	}
	if len(view.Cards) == 0 {
		t.Error("Cards should still be built")
	}
}

func TestSyncOverlappingRefreshLastStartedWins(t *testing.T) {
	backend := defaultMetricsAPI()
	views := NewViewStore()
	svc := NewSyncService(backend, views, nil, testLogger(), nil)

	// The first refresh takes its sequence stamp, then blocks on the gate
	// while a second refresh starts and completes.
	gate := make(chan struct{})
	backend.mu.Lock()
	backend.fetchGate = gate
	backend.mu.Unlock()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- svc.Refresh(context.Background(), "cust-1")
	}()

	// Wait until the first refresh has taken seq 1.
	deadline := time.Now().Add(2 * time.Second)
	for views.seq.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	backend.mu.Lock()
	backend.fetchGate = nil
	backend.customer = &domain.Customer{ID: "cust-1", Name: "Acme v2"}
	backend.mu.Unlock()

	if err := svc.Refresh(context.Background(), "cust-1"); err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}

	view, _ := views.Get("cust-1")
	if view.Customer.Name != "Acme v2" {
		t.Errorf("The later-started refresh must win, got customer %q", view.Customer.Name)
	}
}

func TestSyncCachedViewWarmsStore(t *testing.T) {
	backend := defaultMetricsAPI()
	views := NewViewStore()
	snaps := newFakeSnapshotStore()
	svc := NewSyncService(backend, views, snaps, testLogger(), nil)

	cached := &domain.CustomerView{
		Customer: domain.Customer{ID: "cust-1", Name: "Acme"},
		Seq:      99, // a stale stamp from a previous process lifetime
	}
	payload, _ := json.Marshal(cached)
	snaps.Save(context.Background(), &domain.ViewSnapshot{
		CustomerID: "cust-1",
		Payload:    payload,
		SyncedAt:   time.Now(),
	})

	view, err := svc.CachedView(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("CachedView failed: %v", err)
	}
	if view.Seq != 0 {
		t.Errorf("Cached views must carry seq 0, got %d", view.Seq)
	}
	if got, ok := views.Get("cust-1"); !ok || got.Customer.Name != "Acme" {
		t.Error("CachedView should seed the store")
	}

	// A live refresh still replaces the seeded view.
	if err := svc.Refresh(context.Background(), "cust-1"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	got, _ := views.Get("cust-1")
	if got.Seq == 0 {
		t.Error("Live refresh should replace the seeded view")
	}
}

func TestSyncCachedViewWithoutStore(t *testing.T) {
	svc := NewSyncService(defaultMetricsAPI(), NewViewStore(), nil, testLogger(), nil)
	if _, err := svc.CachedView(context.Background(), "cust-1"); err == nil {
		t.Error("CachedView must fail when the snapshot cache is disabled")
	}
}

func TestSyncNotifierSetsBannerLevels(t *testing.T) {
	views := NewViewStore()
	svc := NewSyncService(defaultMetricsAPI(), views, nil, testLogger(), nil)

	svc.OnProgress("cust-1", "Collecting email data...")
	banner, ok := views.Banner("cust-1")
	if !ok || banner.Level != domain.BannerInfo {
		t.Errorf("Progress should set an info banner, got %+v", banner)
	}

	tests := []struct {
		outcome Outcome
		want    domain.BannerLevel
	}{
		{OutcomeCompleted, domain.BannerSuccess},
		{OutcomeTimedOut, domain.BannerWarning},
		{OutcomeErrored, domain.BannerError},
	}
	for _, tt := range tests {
		svc.OnOutcome("cust-1", tt.outcome, "message")
		banner, _ := views.Banner("cust-1")
		if banner.Level != tt.want {
			t.Errorf("Outcome %s: expected banner level %s, got %s", tt.outcome, tt.want, banner.Level)
		}
	}
}
