package ctext

import (
	"fmt"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// ParseError reports that the parser could not make sense of an expected
// table region. It names the byte offset and the unexpected token text.
// Fatal for the affected table only.
type ParseError struct {
	File   string
	Offset int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: malformed table at offset %d: %s", e.File, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: malformed table at offset %d near %q: %s", e.File, e.Offset, e.Token, e.Reason)
}

// Unwrap ties ParseError into the domain error taxonomy.
func (e *ParseError) Unwrap() error { return domain.ErrMalformedTable }
