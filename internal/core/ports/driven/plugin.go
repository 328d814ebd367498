package driven

import "github.com/porysuite/porybridge/internal/core/domain"

// ProjectPlugin declares one supported decomp project variant: how to
// recognise a checkout of it and which data tables it exposes.
// Each plugin (pokeemerald, pokeemerald-expansion, ...) implements this
// interface with its own schema set.
type ProjectPlugin interface {
	// ID returns the project type identifier, e.g. "pokeemerald-expansion".
	ID() string

	// Name returns the human-readable project name.
	Name() string

	// Detect reports whether the tree rooted at root is a checkout of this
	// project. Detection is heuristic: it checks for marker files that
	// distinguish the variant, never the full tree.
	Detect(root string) bool

	// Schemas returns the table schemas this project exposes. The returned
	// slice is owned by the caller; plugins return fresh copies.
	Schemas() ([]domain.TableSchema, error)
}
