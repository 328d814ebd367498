package ctext

// NodeKind classifies arena nodes.
type NodeKind uint8

const (
	// KindRoot is the table's outer brace literal.
	KindRoot NodeKind = iota
	// KindEntry is one initializer entry, keyed ([SPECIES_X] = ...) or
	// positional.
	KindEntry
	// KindField is a designated struct field (.baseHP = 45).
	KindField
	// KindValue is a scalar or expression leaf.
	KindValue
	// KindBrace is a nested brace literal.
	KindBrace
	// KindOpaque is a conditional-compilation region or stray directive,
	// preserved verbatim and never editable.
	KindOpaque
)

// ValueClass refines KindValue leaves. It steers extraction and rendering;
// anything not recognised stays ClassExpr and round-trips verbatim.
type ValueClass uint8

const (
	// ClassNone is set on non-value nodes.
	ClassNone ValueClass = iota
	// ClassNumber is a numeric literal, optionally signed.
	ClassNumber
	// ClassString is one or more adjacent string literals.
	ClassString
	// ClassIdent is a single bare identifier.
	ClassIdent
	// ClassCall is a macro or wrapper call: IDENT( ... ).
	ClassCall
	// ClassExpr is any other expression (ternaries, arithmetic, bit-or
	// flag chains). Opaque; preserved verbatim.
	ClassExpr
)

// Node is one arena node. Children reference other nodes by arena index,
// and the arena is immutable after parse: the extractor and writer both
// hold references into it without lifetime concerns.
type Node struct {
	Kind NodeKind

	// Span covers the node's full source extent. For entries and fields
	// it starts at the designator and ends after the value, excluding any
	// trailing comma.
	Span Span

	// Key is the entry designator symbol or the field name (without the
	// leading dot). Empty for positional entries and value leaves.
	Key string

	// Class refines value leaves.
	Class ValueClass

	// Val is the arena index of an entry's or field's value node, or -1.
	Val int

	// Children are brace-literal members in source order.
	Children []int

	// Comment is the leading comment block attached to an entry, if any.
	// Zero span when absent.
	Comment Span
}

// ParsedLiteral is the parsed syntax tree for one table declaration,
// together with the source bytes it indexes into. It is built fresh on
// every load and discarded, never mutated in place.
type ParsedLiteral struct {
	// Table is the declared symbol, e.g. "gSpeciesInfo".
	Table string

	// File is the source path relative to the checkout root.
	File string

	// Src is the complete file content the spans index into.
	Src []byte

	// Decl spans the whole declaration statement including the
	// terminating semicolon.
	Decl Span

	// Body spans the outer brace literal, braces included.
	Body Span

	// Nodes is the arena. Nodes[0] is the root.
	Nodes []Node
}

// Text returns the source text for a span.
func (p *ParsedLiteral) Text(s Span) string {
	return string(p.Src[s.Start:s.End])
}

// Root returns the root node.
func (p *ParsedLiteral) Root() *Node { return &p.Nodes[0] }

// Entries returns the arena indices of all initializer entries, in source
// order, skipping opaque regions.
func (p *ParsedLiteral) Entries() []int {
	var out []int
	for _, idx := range p.Nodes[0].Children {
		if p.Nodes[idx].Kind == KindEntry {
			out = append(out, idx)
		}
	}
	return out
}

// Entry returns the arena index of the entry with the given designator key.
func (p *ParsedLiteral) Entry(key string) (int, bool) {
	for _, idx := range p.Nodes[0].Children {
		n := &p.Nodes[idx]
		if n.Kind == KindEntry && n.Key == key {
			return idx, true
		}
	}
	return 0, false
}

// FieldOf returns the arena index of the named field inside a brace node.
func (p *ParsedLiteral) FieldOf(brace int, name string) (int, bool) {
	for _, idx := range p.Nodes[brace].Children {
		n := &p.Nodes[idx]
		if n.Kind == KindField && n.Key == name {
			return idx, true
		}
	}
	return 0, false
}
