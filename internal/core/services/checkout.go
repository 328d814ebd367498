package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
	"github.com/porysuite/porybridge/internal/logger"
)

// Ensure CheckoutService implements the interface.
var _ driving.CheckoutService = (*CheckoutService)(nil)

// CheckoutService manages registered project checkouts.
type CheckoutService struct {
	store    driven.CheckoutStore
	registry *PluginRegistry
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(store driven.CheckoutStore, registry *PluginRegistry) *CheckoutService {
	return &CheckoutService{store: store, registry: registry}
}

// Register records a source tree as a managed checkout. When projectID is
// empty the project type is auto-detected. Re-registering a path updates
// its project type instead of creating a duplicate.
func (s *CheckoutService) Register(ctx context.Context, root, projectID string) (*domain.Checkout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", domain.ErrInvalidInput, root)
	}

	if projectID == "" {
		detected, err := s.registry.Detect(abs)
		if err != nil {
			return nil, err
		}
		projectID = detected.ID
	} else if _, err := s.registry.Get(projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	checkout, err := s.store.GetByRoot(ctx, abs)
	switch {
	case err == nil:
		checkout.ProjectID = projectID
		checkout.UpdatedAt = now
	case errors.Is(err, domain.ErrNotFound):
		checkout = &domain.Checkout{
			ID:        uuid.NewString(),
			ProjectID: projectID,
			Root:      abs,
			CreatedAt: now,
			UpdatedAt: now,
		}
	default:
		return nil, fmt.Errorf("looking up checkout: %w", err)
	}

	if err := s.store.Save(ctx, checkout); err != nil {
		return nil, fmt.Errorf("saving checkout: %w", err)
	}
	logger.Info("Registered checkout %s (%s) at %s", checkout.ID, projectID, abs)
	return checkout, nil
}

// Get resolves a checkout by ID or by source tree path.
func (s *CheckoutService) Get(ctx context.Context, ref string) (*domain.Checkout, error) {
	return resolveCheckout(ctx, s.store, ref)
}

// List returns all registered checkouts.
func (s *CheckoutService) List(ctx context.Context) ([]domain.Checkout, error) {
	return s.store.List(ctx)
}

// Remove unregisters a checkout. The source tree itself is untouched.
func (s *CheckoutService) Remove(ctx context.Context, ref string) error {
	checkout, err := resolveCheckout(ctx, s.store, ref)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, checkout.ID)
}

// BuildHistory returns recent builds for a checkout, most recent first.
func (s *CheckoutService) BuildHistory(ctx context.Context, ref string, limit int) ([]domain.BuildRecord, error) {
	checkout, err := resolveCheckout(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	return s.store.BuildHistory(ctx, checkout.ID, limit)
}

// resolveCheckout accepts either a checkout ID or a source tree path.
// Paths are recognised by pointing at an existing directory.
func resolveCheckout(ctx context.Context, store driven.CheckoutStore, ref string) (*domain.Checkout, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty checkout reference", domain.ErrInvalidInput)
	}
	if abs, err := filepath.Abs(ref); err == nil {
		if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			return store.GetByRoot(ctx, abs)
		}
	}
	return store.Get(ctx, ref)
}
