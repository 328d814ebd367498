package ctext

// lexer produces tokens over a source buffer. Whitespace is skipped; its
// extent is implicit in the gaps between token offsets, which is how the
// writer reproduces formatting exactly.
type lexer struct {
	src []byte
	pos int

	peeked  bool
	peekTok Token
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src}
}

// next returns the next token, including comments and directives.
func (l *lexer) next() Token {
	if l.peeked {
		l.peeked = false
		return l.peekTok
	}
	return l.scan()
}

// peek returns the next token without consuming it.
func (l *lexer) peek() Token {
	if !l.peeked {
		l.peekTok = l.scan()
		l.peeked = true
	}
	return l.peekTok
}

func (l *lexer) scan() Token {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Start: start, End: start}
	}

	c := l.src[l.pos]
	switch {
	case c == '/' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == '/' || l.src[l.pos+1] == '*'):
		return l.scanComment()
	case c == '#' && l.atLineStart():
		return l.scanDirective()
	case isIdentStart(c):
		return l.scanIdent()
	case c >= '0' && c <= '9':
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	case c == '\'':
		return l.scanChar()
	default:
		l.pos++
		return Token{Kind: TokenPunct, Start: start, End: l.pos}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// atLineStart reports whether only whitespace precedes the current
// position on its line. Preprocessor directives must start a line.
func (l *lexer) atLineStart() bool {
	for i := l.pos - 1; i >= 0; i-- {
		switch l.src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

func (l *lexer) scanComment() Token {
	start := l.pos
	if l.src[l.pos+1] == '/' {
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return Token{Kind: TokenComment, Start: start, End: l.pos}
	}
	l.pos += 2
	for l.pos+1 < len(l.src) {
		if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			l.pos += 2
			return Token{Kind: TokenComment, Start: start, End: l.pos}
		}
		l.pos++
	}
	l.pos = len(l.src)
	return Token{Kind: TokenComment, Start: start, End: l.pos}
}

// scanDirective consumes one preprocessor line, honouring backslash
// continuations. The directive body is opaque to the parser.
func (l *lexer) scanDirective() Token {
	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == '\n' {
			if isContinued(l.src, l.pos) {
				l.pos++
				continue
			}
			break
		}
		l.pos++
	}
	return Token{Kind: TokenDirective, Start: start, End: l.pos}
}

// isContinued reports whether the newline at pos is escaped by a
// backslash (ignoring a carriage return).
func isContinued(src []byte, pos int) bool {
	i := pos - 1
	if i >= 0 && src[i] == '\r' {
		i--
	}
	return i >= 0 && src[i] == '\\'
}

func (l *lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return Token{Kind: TokenIdent, Start: start, End: l.pos}
}

// scanNumber consumes decimal, hex, octal and binary literals with any
// integer suffix. The literal text is kept verbatim; base detection
// happens at extraction time.
func (l *lexer) scanNumber() Token {
	start := l.pos
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X' ||
		l.src[l.pos+1] == 'b' || l.src[l.pos+1] == 'B') {
		l.pos += 2
	}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isHexDigit(c) || c == '.' || isIntSuffix(c) {
			l.pos++
			continue
		}
		break
	}
	return Token{Kind: TokenNumber, Start: start, End: l.pos}
}

func (l *lexer) scanString() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '"':
			l.pos++
			return Token{Kind: TokenString, Start: start, End: l.pos}
		case '\n':
			// Unterminated on this line; stop rather than swallow the file.
			return Token{Kind: TokenString, Start: start, End: l.pos}
		}
		l.pos++
	}
	return Token{Kind: TokenString, Start: start, End: l.pos}
}

func (l *lexer) scanChar() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\'':
			l.pos++
			return Token{Kind: TokenChar, Start: start, End: l.pos}
		case '\n':
			return Token{Kind: TokenChar, Start: start, End: l.pos}
		}
		l.pos++
	}
	return Token{Kind: TokenChar, Start: start, End: l.pos}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIntSuffix(c byte) bool {
	return c == 'u' || c == 'U' || c == 'l' || c == 'L'
}
