package driving

import (
	"context"
	"time"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// TxStatus is the observable state of a checkout's edit transaction.
type TxStatus struct {
	// ID is the transaction identifier. Empty when State is clean.
	ID string

	// State is the transaction lifecycle state.
	State domain.TxState

	// StartedAt is when the first edit opened the transaction.
	StartedAt time.Time

	// Edits are the accumulated pending edits, in submission order.
	Edits []domain.PendingEdit
}

// CommitOptions tunes one commit invocation.
type CommitOptions struct {
	// SkipBuild writes and keeps the changes without invoking the build
	// service.
	SkipBuild bool
}

// CommitReport describes a completed commit.
type CommitReport struct {
	// TxID is the committed transaction's identifier.
	TxID string

	// Files lists the rewritten source paths, relative to the checkout
	// root.
	Files []string

	// Build is the build outcome, nil when the build was skipped or no
	// build service is available.
	Build *domain.BuildResult

	// Unverified is true when the caller did not skip the build but no
	// build service could run, so the written changes were never
	// compile-checked.
	Unverified bool
}

// EditService manages the edit transaction of each checkout: edits
// accumulate in memory, validation happens on entry, and nothing touches
// disk until Commit.
type EditService interface {
	// SetField stages one field edit. The raw value is parsed against the
	// field's schema kind; domain violations are rejected here, before
	// the edit is accumulated. The first accepted edit moves the checkout
	// to the editing state.
	SetField(ctx context.Context, ref, table, key, path, raw string) error

	// Status returns the checkout's transaction status.
	Status(ctx context.Context, ref string) (*TxStatus, error)

	// Rollback discards all pending edits. Source files are untouched
	// because edits only live in memory before commit.
	Rollback(ctx context.Context, ref string) error

	// Commit writes all pending edits, verifies the result with the build
	// service, and returns to the clean state. A failed build restores
	// the previous file contents and keeps the edits pending.
	Commit(ctx context.Context, ref string, opts CommitOptions) (*CommitReport, error)
}

// BuildRunner triggers a standalone build of a checkout and records it in
// the build history.
type BuildRunner interface {
	// Run builds the checkout and returns the outcome.
	Run(ctx context.Context, ref string) (*domain.BuildResult, error)
}
