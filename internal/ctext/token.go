package ctext

import "fmt"

// TokenKind classifies lexical tokens.
type TokenKind uint8

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota
	// TokenIdent is an identifier or keyword.
	TokenIdent
	// TokenNumber is a numeric literal, base and suffix included.
	TokenNumber
	// TokenString is a double-quoted string literal.
	TokenString
	// TokenChar is a single-quoted character literal.
	TokenChar
	// TokenPunct is a single punctuation character.
	TokenPunct
	// TokenComment is a line or block comment.
	TokenComment
	// TokenDirective is one preprocessor line, continuations included.
	TokenDirective
)

// Token is one lexical token with byte-offset provenance into the source.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
}

// Span is a half-open byte range [Start, End) into a source buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether the span fully contains other.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlaps reports whether two spans share any byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// span returns the token's byte range.
func (t Token) span() Span { return Span{Start: t.Start, End: t.End} }
