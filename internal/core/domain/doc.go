// Package domain defines the core business entities for porybridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TableSchema: A declarative description of one game-data table
//   - Record: One table entry, keyed by its natural key symbol
//   - Value: A typed field value preserving its source conventions
//   - PendingEdit: One accumulated field edit inside a transaction
//   - Checkout: One checked-out project tree
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
