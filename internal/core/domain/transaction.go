package domain

// TxState is the lifecycle state of an edit transaction.
type TxState uint8

const (
	// TxClean means no pending edits exist.
	TxClean TxState = iota
	// TxEditing means at least one pending edit is accumulated and no
	// commit is in flight.
	TxEditing
	// TxCommitting means the writer is running or the build service has
	// been invoked.
	TxCommitting
)

// String returns the state name.
func (s TxState) String() string {
	switch s {
	case TxClean:
		return "clean"
	case TxEditing:
		return "editing"
	case TxCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// PendingEdit is one accumulated field edit: table, record key, field path
// and the validated replacement value.
type PendingEdit struct {
	Table string
	Key   string
	Path  FieldPath
	Value Value
}

// Diagnostic is one compiler diagnostic surfaced verbatim from the build
// service.
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

// BuildResult is the outcome of one build service invocation.
type BuildResult struct {
	Success     bool
	Diagnostics []Diagnostic
}
