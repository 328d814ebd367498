package driven

import (
	"context"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// CheckoutStore persists registered checkouts and their build history.
type CheckoutStore interface {
	// Save persists a checkout. Creates or updates based on ID.
	Save(ctx context.Context, checkout *domain.Checkout) error

	// Get retrieves a checkout by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Checkout, error)

	// GetByRoot retrieves the checkout registered for a source tree path.
	// Returns domain.ErrNotFound if the path is not registered.
	GetByRoot(ctx context.Context, root string) (*domain.Checkout, error)

	// List returns all registered checkouts.
	List(ctx context.Context) ([]domain.Checkout, error)

	// Delete removes a checkout and its build history.
	Delete(ctx context.Context, id string) error

	// RecordBuild logs one build invocation against a checkout.
	RecordBuild(ctx context.Context, record *domain.BuildRecord) error

	// BuildHistory returns recent builds for a checkout, most recent
	// first.
	BuildHistory(ctx context.Context, checkoutID string, limit int) ([]domain.BuildRecord, error)
}
