package driven

import (
	"context"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// BuildService compiles a project checkout and reports the outcome.
// Implementations range from a containerised toolchain to a stub that
// always succeeds; core never assumes anything beyond this contract.
type BuildService interface {
	// Name returns the service identifier for logs and build history.
	Name() string

	// Available reports whether the service can run on this machine.
	// An unavailable service is skipped at commit time with a warning
	// rather than failing the commit.
	Available(ctx context.Context) bool

	// Build compiles the checkout rooted at root. A failed compile is not
	// an error: it returns a BuildResult with Success false and the
	// compiler diagnostics. The error return is for infrastructure
	// failures only (toolchain missing, context cancelled).
	Build(ctx context.Context, root string) (domain.BuildResult, error)
}
