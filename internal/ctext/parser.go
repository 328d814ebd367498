package ctext

import "strings"

// Parse builds a ParsedLiteral from the located declaration of a table.
// The span argument comes from Locate. Returns a ParseError wrapping
// domain.ErrMalformedTable when the region does not match the table
// grammar.
func Parse(src []byte, file, table string, span TableSpan) (*ParsedLiteral, error) {
	p := &parser{
		lex:  &lexer{src: src, pos: span.Body.Start},
		src:  src,
		file: file,
	}
	pl := &ParsedLiteral{
		Table: table,
		File:  file,
		Src:   src,
		Decl:  span.Decl,
		Body:  span.Body,
	}

	// Reserve index 0 for the root.
	p.nodes = append(p.nodes, Node{Kind: KindRoot, Val: -1})
	root, err := p.parseBrace(true)
	if err != nil {
		return nil, err
	}
	p.nodes[0] = p.nodes[root]
	p.nodes[0].Kind = KindRoot
	pl.Nodes = p.nodes
	return pl, nil
}

type parser struct {
	lex   *lexer
	src   []byte
	file  string
	nodes []Node
}

func (p *parser) add(n Node) int {
	p.nodes = append(p.nodes, n)
	return len(p.nodes) - 1
}

func (p *parser) errAt(tok Token, reason string) error {
	return &ParseError{
		File:   p.file,
		Offset: tok.Start,
		Token:  string(p.src[tok.Start:tok.End]),
		Reason: reason,
	}
}

func (p *parser) text(tok Token) string {
	return string(p.src[tok.Start:tok.End])
}

// parseBrace parses one brace literal. At the root level positional
// values are wrapped in entry nodes so the extractor sees a uniform
// entry list.
func (p *parser) parseBrace(root bool) (int, error) {
	open := p.lex.next()
	if p.text(open) != "{" {
		return 0, p.errAt(open, "expected '{'")
	}

	idx := p.add(Node{Kind: KindBrace, Val: -1, Span: Span{Start: open.Start}})
	var children []int
	var comment Span

	for {
		tok := p.lex.peek()
		switch {
		case tok.Kind == TokenEOF:
			return 0, p.errAt(tok, "unterminated brace literal")

		case tok.Kind == TokenComment:
			p.lex.next()
			if comment.Len() == 0 {
				comment = tok.span()
			} else {
				comment.End = tok.End
			}
			continue

		case tok.Kind == TokenDirective:
			child, err := p.parseOpaque()
			if err != nil {
				return 0, err
			}
			children = append(children, child)
			comment = Span{}
			continue

		case tok.Kind == TokenPunct && p.text(tok) == "}":
			p.lex.next()
			p.nodes[idx].Span.End = tok.End
			p.nodes[idx].Children = children
			return idx, nil

		case tok.Kind == TokenPunct && p.text(tok) == ",":
			// Trailing or stray comma between members.
			p.lex.next()
			continue
		}

		child, err := p.parseMember(tok, root, comment)
		if err != nil {
			return 0, err
		}
		children = append(children, child)
		comment = Span{}
	}
}

// parseMember parses one brace-literal member: a keyed entry, a designated
// field, or a positional value.
func (p *parser) parseMember(tok Token, root bool, comment Span) (int, error) {
	switch {
	case tok.Kind == TokenPunct && p.text(tok) == "[":
		return p.parseKeyedEntry(comment)
	case tok.Kind == TokenPunct && p.text(tok) == ".":
		return p.parseField(comment)
	default:
		val, err := p.parseValue()
		if err != nil {
			return 0, err
		}
		if root {
			entry := Node{
				Kind:    KindEntry,
				Span:    p.nodes[val].Span,
				Val:     val,
				Comment: comment,
			}
			return p.add(entry), nil
		}
		return val, nil
	}
}

// parseKeyedEntry parses "[KEY] = value". The designator text between the
// brackets is kept verbatim as the key.
func (p *parser) parseKeyedEntry(comment Span) (int, error) {
	open := p.lex.next() // '['
	start := open.Start

	depth := 1
	keyStart, keyEnd := -1, -1
	for depth > 0 {
		tok := p.lex.next()
		if tok.Kind == TokenEOF {
			return 0, p.errAt(tok, "unterminated designator")
		}
		if tok.Kind == TokenPunct {
			switch p.text(tok) {
			case "[":
				depth++
			case "]":
				depth--
				continue
			}
		}
		if depth > 0 {
			if keyStart < 0 {
				keyStart = tok.Start
			}
			keyEnd = tok.End
		}
	}
	if keyStart < 0 {
		return 0, p.errAt(open, "empty designator")
	}
	key := strings.TrimSpace(string(p.src[keyStart:keyEnd]))

	eq := p.lex.next()
	if eq.Kind != TokenPunct || p.text(eq) != "=" {
		return 0, p.errAt(eq, "expected '=' after designator")
	}

	val, err := p.parseValue()
	if err != nil {
		return 0, err
	}
	entry := Node{
		Kind:    KindEntry,
		Span:    Span{Start: start, End: p.nodes[val].Span.End},
		Key:     key,
		Val:     val,
		Comment: comment,
	}
	return p.add(entry), nil
}

// parseField parses ".name = value".
func (p *parser) parseField(comment Span) (int, error) {
	dot := p.lex.next() // '.'
	name := p.lex.next()
	if name.Kind != TokenIdent {
		return 0, p.errAt(name, "expected field name after '.'")
	}
	eq := p.lex.next()
	if eq.Kind != TokenPunct || p.text(eq) != "=" {
		return 0, p.errAt(eq, "expected '=' after field name")
	}

	val, err := p.parseValue()
	if err != nil {
		return 0, err
	}
	field := Node{
		Kind:    KindField,
		Span:    Span{Start: dot.Start, End: p.nodes[val].Span.End},
		Key:     p.text(name),
		Val:     val,
		Comment: comment,
	}
	return p.add(field), nil
}

// parseOpaque consumes a preprocessor region. A conditional block is
// swallowed whole, from #if to its matching #endif, members included:
// conditional code is never editable and bounds record boundaries.
func (p *parser) parseOpaque() (int, error) {
	first := p.lex.next()
	span := first.span()

	if directiveOpens(p.text(first)) {
		depth := 1
		for depth > 0 {
			tok := p.lex.next()
			if tok.Kind == TokenEOF {
				return 0, p.errAt(tok, "unterminated conditional block")
			}
			if tok.Kind == TokenDirective {
				switch {
				case directiveOpens(p.text(tok)):
					depth++
				case directiveCloses(p.text(tok)):
					depth--
				}
			}
			span.End = tok.End
		}
	}
	return p.add(Node{Kind: KindOpaque, Span: span, Val: -1}), nil
}

func directiveName(text string) string {
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimLeft(text, " \t")
	for i := 0; i < len(text); i++ {
		if !isIdentPart(text[i]) {
			return text[:i]
		}
	}
	return text
}

func directiveOpens(text string) bool {
	switch directiveName(text) {
	case "if", "ifdef", "ifndef":
		return true
	}
	return false
}

func directiveCloses(text string) bool {
	return directiveName(text) == "endif"
}

// parseValue parses a value: a nested brace literal or an expression
// scanned to the next comma, closing brace or semicolon at depth zero.
func (p *parser) parseValue() (int, error) {
	tok := p.lex.peek()
	if tok.Kind == TokenPunct && p.text(tok) == "{" {
		return p.parseBrace(false)
	}
	return p.parseExpr()
}

// parseExpr consumes one expression and classifies it. Unrecognised
// shapes become ClassExpr and are preserved verbatim.
func (p *parser) parseExpr() (int, error) {
	var toks []Token
	span := Span{Start: -1}
	depth := 0

	for {
		tok := p.lex.peek()
		if tok.Kind == TokenEOF {
			return 0, p.errAt(tok, "unterminated value")
		}
		if tok.Kind == TokenPunct && depth == 0 {
			switch p.text(tok) {
			case ",", "}", ";":
				if span.Start < 0 {
					return 0, p.errAt(tok, "expected a value")
				}
				return p.add(Node{
					Kind:  KindValue,
					Span:  span,
					Class: classify(p.src, toks),
					Val:   -1,
				}), nil
			}
		}
		p.lex.next()
		if tok.Kind == TokenPunct {
			switch p.text(tok) {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
		}
		if tok.Kind != TokenComment {
			if span.Start < 0 {
				span.Start = tok.Start
			}
			span.End = tok.End
			toks = append(toks, tok)
		}
	}
}

// classify inspects an expression's tokens and assigns a value class.
func classify(src []byte, toks []Token) ValueClass {
	if len(toks) == 0 {
		return ClassExpr
	}

	text := func(t Token) string { return string(src[t.Start:t.End]) }

	// Signed numeric literal.
	if len(toks) == 2 && toks[0].Kind == TokenPunct &&
		(text(toks[0]) == "-" || text(toks[0]) == "+") && toks[1].Kind == TokenNumber {
		return ClassNumber
	}
	if len(toks) == 1 {
		switch toks[0].Kind {
		case TokenNumber:
			return ClassNumber
		case TokenString:
			return ClassString
		case TokenIdent:
			return ClassIdent
		}
		return ClassExpr
	}

	// Adjacent string literal concatenation.
	allStrings := true
	for _, t := range toks {
		if t.Kind != TokenString {
			allStrings = false
			break
		}
	}
	if allStrings {
		return ClassString
	}

	// Macro call: IDENT ( ... ) with the parens balanced over the whole
	// token run.
	if toks[0].Kind == TokenIdent && len(toks) >= 3 &&
		toks[1].Kind == TokenPunct && text(toks[1]) == "(" &&
		toks[len(toks)-1].Kind == TokenPunct && text(toks[len(toks)-1]) == ")" {
		depth := 0
		for i := 1; i < len(toks); i++ {
			if toks[i].Kind != TokenPunct {
				continue
			}
			switch text(toks[i]) {
			case "(":
				depth++
			case ")":
				depth--
				if depth == 0 && i != len(toks)-1 {
					return ClassExpr
				}
			}
		}
		if depth == 0 {
			return ClassCall
		}
	}
	return ClassExpr
}
