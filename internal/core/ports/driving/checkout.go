package driving

import (
	"context"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// CheckoutService manages registered project checkouts.
type CheckoutService interface {
	// Register records a source tree as a managed checkout. When projectID
	// is empty the project type is auto-detected.
	Register(ctx context.Context, root, projectID string) (*domain.Checkout, error)

	// Get resolves a checkout by ID or by source tree path.
	Get(ctx context.Context, ref string) (*domain.Checkout, error)

	// List returns all registered checkouts.
	List(ctx context.Context) ([]domain.Checkout, error)

	// Remove unregisters a checkout. The source tree itself is untouched.
	Remove(ctx context.Context, ref string) error

	// BuildHistory returns recent builds for a checkout, most recent first.
	BuildHistory(ctx context.Context, ref string, limit int) ([]domain.BuildRecord, error)
}
