package ctext

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// TableSpan is the located extent of one table declaration.
type TableSpan struct {
	// Decl spans the whole declaration statement, from the start of its
	// first line through the terminating semicolon.
	Decl Span

	// Body spans the outer brace literal, braces included.
	Body Span
}

// Locate finds the declaration matching the locator inside one source
// buffer. It recognises plain array declarations
// (const struct T symbol[] = { ... };) and registered macro-invocation
// declarations (MACRO(...symbol...) = { ... };).
//
// Returns domain.ErrNotFound when the buffer holds no matching
// declaration; callers treat absence as "unsupported for this project",
// never as corruption.
func Locate(src []byte, loc domain.TableLocator) (TableSpan, error) {
	lex := newLexer(src)
	depth := 0

	for {
		tok := lex.next()
		if tok.Kind == TokenEOF {
			return TableSpan{}, fmt.Errorf("%w: table %q", domain.ErrNotFound, loc.Symbol)
		}

		if tok.Kind == TokenPunct {
			switch src[tok.Start] {
			case '{':
				depth++
			case '}':
				depth--
			}
			continue
		}
		if depth != 0 || tok.Kind != TokenIdent {
			continue
		}

		name := string(src[tok.Start:tok.End])
		var matched bool
		if loc.Macro != "" {
			matched = name == loc.Macro && matchMacroHead(src, lex, loc.Symbol)
		} else {
			matched = name == loc.Symbol && matchArrayHead(src, lex)
		}
		if !matched {
			continue
		}

		span, ok := captureBody(src, lex, tok)
		if !ok {
			continue
		}
		return span, nil
	}
}

// matchArrayHead consumes "[...]...[...] =" after the symbol token,
// leaving the lexer at the opening brace. Declarations without an
// initializer (extern declarations, prototypes) fail the match.
func matchArrayHead(src []byte, lex *lexer) bool {
	for {
		tok := lex.peek()
		if tok.Kind != TokenPunct || src[tok.Start] != '[' {
			break
		}
		lex.next()
		depth := 1
		for depth > 0 {
			t := lex.next()
			if t.Kind == TokenEOF {
				return false
			}
			if t.Kind == TokenPunct {
				switch src[t.Start] {
				case '[':
					depth++
				case ']':
					depth--
				}
			}
		}
	}

	eq := lex.peek()
	if eq.Kind != TokenPunct || src[eq.Start] != '=' {
		return false
	}
	lex.next()
	open := lex.peek()
	return open.Kind == TokenPunct && src[open.Start] == '{'
}

// matchMacroHead consumes "(...)" after the macro name, requiring the
// symbol to appear among the argument identifiers, then " =", leaving the
// lexer at the opening brace.
func matchMacroHead(src []byte, lex *lexer, symbol string) bool {
	open := lex.peek()
	if open.Kind != TokenPunct || src[open.Start] != '(' {
		return false
	}
	lex.next()

	found := symbol == ""
	depth := 1
	for depth > 0 {
		t := lex.next()
		if t.Kind == TokenEOF {
			return false
		}
		switch {
		case t.Kind == TokenPunct && src[t.Start] == '(':
			depth++
		case t.Kind == TokenPunct && src[t.Start] == ')':
			depth--
		case t.Kind == TokenIdent && string(src[t.Start:t.End]) == symbol:
			found = true
		}
	}
	if !found {
		return false
	}

	eq := lex.peek()
	if eq.Kind != TokenPunct || src[eq.Start] != '=' {
		return false
	}
	lex.next()
	brace := lex.peek()
	return brace.Kind == TokenPunct && src[brace.Start] == '{'
}

// captureBody consumes the initializer braces and trailing semicolon,
// returning the declaration and body spans. first is the token that
// started the declaration (symbol or macro name); the declaration span
// begins at that token's line start.
func captureBody(src []byte, lex *lexer, first Token) (TableSpan, bool) {
	open := lex.next() // '{'
	bodyStart := open.Start

	depth := 1
	var bodyEnd int
	for depth > 0 {
		t := lex.next()
		if t.Kind == TokenEOF {
			return TableSpan{}, false
		}
		if t.Kind == TokenPunct {
			switch src[t.Start] {
			case '{':
				depth++
			case '}':
				depth--
				bodyEnd = t.End
			}
		}
	}

	declEnd := bodyEnd
	if semi := lex.peek(); semi.Kind == TokenPunct && src[semi.Start] == ';' {
		lex.next()
		declEnd = semi.End
	}

	return TableSpan{
		Decl: Span{Start: lineStart(src, first.Start), End: declEnd},
		Body: Span{Start: bodyStart, End: bodyEnd},
	}, true
}

func lineStart(src []byte, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if src[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// LocatedTable is one table declaration found inside a project checkout.
type LocatedTable struct {
	// Path is the file path relative to the checkout root.
	Path string

	// Src is the file content.
	Src []byte

	// Span is the located declaration extent.
	Span TableSpan
}

// LocateInRoot resolves the locator's glob against a checkout root and
// searches each matching file for the declaration. The first match wins;
// files are visited in sorted order for determinism.
func LocateInRoot(root string, loc domain.TableLocator) (*LocatedTable, error) {
	pattern := filepath.Join(root, filepath.FromSlash(loc.Glob))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("resolving table glob %q: %w", loc.Glob, err)
	}
	sort.Strings(matches)

	for _, path := range matches {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		span, err := Locate(src, loc)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		return &LocatedTable{Path: filepath.ToSlash(rel), Src: src, Span: span}, nil
	}
	return nil, fmt.Errorf("%w: table %q under %q", domain.ErrNotFound, loc.Symbol, loc.Glob)
}
