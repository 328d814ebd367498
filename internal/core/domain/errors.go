package domain

import "errors"

// Domain errors represent bridge-level failures.
// These are distinct from infrastructure errors.
var (
	// ErrMalformedTable indicates the parser could not make sense of a region
	// expected to contain a table declaration. Fatal for that table only;
	// other tables in the project remain usable.
	ErrMalformedTable = errors.New("malformed table")

	// ErrNotFound indicates a table or declaration is absent from this
	// project variant. Surfaced to users as "unsupported", never as corruption.
	ErrNotFound = errors.New("not found")

	// ErrSchemaMismatch indicates the extractor and schema disagree, e.g. a
	// mandatory field is missing from source. Usually means a stale schema.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDomainViolation indicates a value failed its field's domain check.
	// Recoverable; reported inline at edit time.
	ErrDomainViolation = errors.New("domain violation")

	// ErrEditConflict indicates two pending edits target overlapping byte
	// ranges. A defensive invariant breach; fatal to the transaction.
	ErrEditConflict = errors.New("edit conflict")

	// ErrTransactionInProgress indicates another transaction is already open
	// for the same checkout. The caller retries after it resolves.
	ErrTransactionInProgress = errors.New("transaction in progress")

	// ErrNoTransaction indicates no transaction is open for the checkout.
	ErrNoTransaction = errors.New("no open transaction")

	// ErrUnknownProject indicates no plugin is registered for a project id.
	ErrUnknownProject = errors.New("unknown project")

	// ErrUnknownTable indicates the schema set has no table by that name.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownRecord indicates a table has no record with the given key.
	ErrUnknownRecord = errors.New("unknown record")

	// ErrUnknownField indicates a field path does not resolve against the
	// table's schema or the record's parsed source.
	ErrUnknownField = errors.New("unknown field")

	// ErrBuildFailed indicates the external build service reported failure.
	// Recoverable: edits are retained so the user can adjust and recommit.
	ErrBuildFailed = errors.New("build failed")

	// ErrInvalidInput indicates malformed or invalid caller input.
	ErrInvalidInput = errors.New("invalid input")
)
