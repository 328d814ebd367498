package driving

import (
	"context"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// TableStatus reports one table's availability inside a checkout.
type TableStatus struct {
	// Name is the logical table name.
	Name string

	// File is the source path the table was located in, relative to the
	// checkout root. Empty when unsupported.
	File string

	// Records is the number of extracted records. Zero when unsupported.
	Records int

	// Supported is false when the table's declaration is absent from this
	// checkout (e.g. a newer-generation table on a vanilla tree).
	Supported bool

	// Err carries the load failure for malformed tables. Nil otherwise.
	Err error
}

// TableService reads table data out of a checkout. All reads parse the
// current on-disk source: there is no cache to go stale behind an
// external edit.
type TableService interface {
	// Tables loads every schema-declared table of the checkout's project
	// and reports per-table status. A single malformed table never fails
	// the whole call.
	Tables(ctx context.Context, ref string) ([]TableStatus, error)

	// Keys returns the record keys of one table in source order.
	Keys(ctx context.Context, ref, table string) ([]string, error)

	// Record returns one extracted record.
	Record(ctx context.Context, ref, table, key string) (*domain.Record, error)

	// Field resolves a field path against one record.
	Field(ctx context.Context, ref, table, key, path string) (domain.Value, error)
}
