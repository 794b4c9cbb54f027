package service

import (
	"sync"
	"sync/atomic"

	"github.com/contentclicks/dashboard/internal/domain"
)

// ViewStore is the render target: the in-memory, per-customer dashboard
// projection. Views are replaced wholesale; a replacement carrying a stale
// sequence stamp is dropped so a slow in-flight refresh can never overwrite
// a newer one. The progress banner is kept beside the view because it is
// updated by the poller between refreshes.
type ViewStore struct {
	seq atomic.Uint64

	mu      sync.RWMutex
	views   map[string]*domain.CustomerView
	banners map[string]domain.ProgressBanner
}

// NewViewStore creates an empty view store.
func NewViewStore() *ViewStore {
	return &ViewStore{
		views:   make(map[string]*domain.CustomerView),
		banners: make(map[string]domain.ProgressBanner),
	}
}

// NextSeq issues the next sequence stamp. Callers take a stamp before
// fetching so that whichever fetch started later wins, regardless of which
// one lands first.
func (s *ViewStore) NextSeq() uint64 {
	return s.seq.Add(1)
}

// Replace installs a view if its sequence stamp is newer than the one in
// place. Returns false when the view was stale and dropped.
func (s *ViewStore) Replace(view *domain.CustomerView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.views[view.Customer.ID]; ok && current.Seq >= view.Seq {
		return false
	}
	s.views[view.Customer.ID] = view
	return true
}

// Get returns a copy of the customer's view with the current banner merged
// in. The second return is false when no view has been synchronized yet.
func (s *ViewStore) Get(customerID string) (*domain.CustomerView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.views[customerID]
	if !ok {
		return nil, false
	}
	out := *view
	if banner, ok := s.banners[customerID]; ok {
		out.Banner = banner
	}
	return &out, true
}

// SetBanner updates the progress banner for a customer.
func (s *ViewStore) SetBanner(customerID string, banner domain.ProgressBanner) {
	s.mu.Lock()
	s.banners[customerID] = banner
	s.mu.Unlock()
}

// Banner returns the current banner for a customer.
func (s *ViewStore) Banner(customerID string) (domain.ProgressBanner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	banner, ok := s.banners[customerID]
	return banner, ok
}

// Seed installs a view without a fresh sequence stamp, used to warm the
// store from the persisted cache at startup. A live view already in place
// is never overwritten.
func (s *ViewStore) Seed(view *domain.CustomerView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[view.Customer.ID]; !ok {
		s.views[view.Customer.ID] = view
	}
}
