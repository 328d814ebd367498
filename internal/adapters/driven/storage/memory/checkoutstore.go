// Package memory provides in-memory store implementations, used in tests
// and as a fallback when persistent storage is unavailable.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
)

// Ensure CheckoutStore implements the interface.
var _ driven.CheckoutStore = (*CheckoutStore)(nil)

// CheckoutStore is an in-memory implementation of driven.CheckoutStore.
type CheckoutStore struct {
	mu        sync.RWMutex
	checkouts map[string]domain.Checkout
	builds    map[string][]domain.BuildRecord
}

// NewCheckoutStore creates a new in-memory checkout store.
func NewCheckoutStore() *CheckoutStore {
	return &CheckoutStore{
		checkouts: make(map[string]domain.Checkout),
		builds:    make(map[string][]domain.BuildRecord),
	}
}

// Save stores or updates a checkout.
func (s *CheckoutStore) Save(_ context.Context, checkout *domain.Checkout) error {
	if checkout == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkouts[checkout.ID] = *checkout
	return nil
}

// Get retrieves a checkout by ID.
func (s *CheckoutStore) Get(_ context.Context, id string) (*domain.Checkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkout, ok := s.checkouts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &checkout, nil
}

// GetByRoot retrieves the checkout registered for a source tree path.
func (s *CheckoutStore) GetByRoot(_ context.Context, root string) (*domain.Checkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, checkout := range s.checkouts {
		if checkout.Root == root {
			c := checkout
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all registered checkouts, sorted by creation time.
func (s *CheckoutStore) List(_ context.Context) ([]domain.Checkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Checkout, 0, len(s.checkouts))
	for _, checkout := range s.checkouts {
		result = append(result, checkout)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a checkout and its build history.
func (s *CheckoutStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkouts, id)
	delete(s.builds, id)
	return nil
}

// RecordBuild logs one build invocation against a checkout.
func (s *CheckoutStore) RecordBuild(_ context.Context, record *domain.BuildRecord) error {
	if record == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[record.CheckoutID] = append(s.builds[record.CheckoutID], *record)
	return nil
}

// BuildHistory returns recent builds for a checkout, most recent first.
func (s *CheckoutStore) BuildHistory(_ context.Context, checkoutID string, limit int) ([]domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.builds[checkoutID]
	result := make([]domain.BuildRecord, len(records))
	copy(result, records)
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
