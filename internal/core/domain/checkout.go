package domain

import "time"

// Checkout is one checked-out copy of a decomp project tree. Transaction
// mutual exclusion keys on the checkout path: several checkouts of the same
// project may be edited independently, but each path admits at most one
// open transaction.
type Checkout struct {
	// ID is the unique identifier for the checkout.
	ID string

	// ProjectID identifies the registered project plugin
	// (e.g. "pokeemerald-expansion").
	ProjectID string

	// Root is the absolute path to the checked-out source tree.
	Root string

	// CreatedAt is when the checkout was registered.
	CreatedAt time.Time

	// UpdatedAt is when the checkout was last touched by a commit.
	UpdatedAt time.Time
}

// BuildRecord is one build service invocation kept for history.
type BuildRecord struct {
	ID          string
	CheckoutID  string
	Success     bool
	StartedAt   time.Time
	FinishedAt  time.Time
	Diagnostics []Diagnostic
}
