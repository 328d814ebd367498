// Package stub provides a build service that never compiles anything.
// It exists for tests and for workflows where the user verifies builds
// out of band but still wants commits recorded against build history.
package stub

import (
	"context"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
)

// Builder reports success without invoking any toolchain.
type Builder struct{}

var _ driven.BuildService = (*Builder)(nil)

// NewBuilder creates a stub build service.
func NewBuilder() *Builder {
	return &Builder{}
}

// Name returns the service identifier.
func (b *Builder) Name() string {
	return "stub"
}

// Available always reports true.
func (b *Builder) Available(_ context.Context) bool {
	return true
}

// Build reports success unless the context is already cancelled.
func (b *Builder) Build(ctx context.Context, _ string) (domain.BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.BuildResult{}, err
	}
	return domain.BuildResult{Success: true}, nil
}
