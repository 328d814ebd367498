package ctext

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// Splice is one byte-range replacement against a source buffer.
type Splice struct {
	Span Span
	Text string
}

// Apply splices replacements into src. Every byte outside the replaced
// spans is copied unchanged, which is the minimal-diff guarantee: spans
// never touched by any splice are byte-identical in the output.
//
// Overlapping spans fail with domain.ErrEditConflict. This should not
// occur given field-path granularity but is checked defensively.
func Apply(src []byte, splices []Splice) ([]byte, error) {
	if len(splices) == 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}

	ordered := make([]Splice, len(splices))
	copy(ordered, splices)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Span.Start < ordered[j].Span.Start
	})

	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Span.Overlaps(ordered[i].Span) {
			return nil, fmt.Errorf("%w: spans %s and %s overlap",
				domain.ErrEditConflict, ordered[i-1].Span, ordered[i].Span)
		}
	}

	var out []byte
	pos := 0
	for _, sp := range ordered {
		if sp.Span.Start < 0 || sp.Span.End > len(src) {
			return nil, fmt.Errorf("%w: span %s outside source", domain.ErrEditConflict, sp.Span)
		}
		out = append(out, src[pos:sp.Span.Start]...)
		out = append(out, sp.Text...)
		pos = sp.Span.End
	}
	out = append(out, src[pos:]...)
	return out, nil
}

// ApplyEdits renders a set of pending edits for one table into revised
// file content. Values are re-validated against the schema at apply time,
// not only at edit time, to guard against schema reloads between edit and
// commit.
func ApplyEdits(pl *ParsedLiteral, schema *domain.TableSchema, edits []domain.PendingEdit) ([]byte, error) {
	splices, err := RenderEdits(pl, schema, edits)
	if err != nil {
		return nil, err
	}
	return Apply(pl.Src, splices)
}

// RenderEdits resolves a set of pending edits for one table into splices
// against the table's source file, without applying them. Callers that
// edit several tables sharing one file collect the splices per file and
// Apply them in a single pass.
func RenderEdits(pl *ParsedLiteral, schema *domain.TableSchema, edits []domain.PendingEdit) ([]Splice, error) {
	splices := make([]Splice, 0, len(edits))
	for _, edit := range edits {
		def, err := schema.FieldAt(edit.Path)
		if err != nil {
			return nil, err
		}
		if err := def.Validate(edit.Value); err != nil {
			return nil, err
		}

		node, err := ResolveValueNode(pl, schema, edit.Key, edit.Path)
		if err != nil {
			return nil, err
		}
		n := &pl.Nodes[node]
		text, err := RenderValue(edit.Value, def, pl.Text(n.Span))
		if err != nil {
			return nil, err
		}
		splices = append(splices, Splice{Span: n.Span, Text: text})
	}
	return splices, nil
}

// ResolveValueNode walks provenance from a record key and field path to
// the arena node holding that field's value text. Designated members are
// matched by name; members of undesignated struct literals are matched by
// the field's position in its definition list.
func ResolveValueNode(pl *ParsedLiteral, schema *domain.TableSchema, key string, path domain.FieldPath) (int, error) {
	entry, err := entryForKey(pl, schema, key)
	if err != nil {
		return 0, err
	}

	node := pl.Nodes[entry].Val
	if node < 0 {
		return 0, fmt.Errorf("%w: record %q has no value", domain.ErrUnknownField, key)
	}
	if len(path) == 0 {
		return node, nil
	}

	fields := schema.Fields
	positionalOK := schema.Mode == domain.ModePositional
	for _, seg := range path {
		def, pos := fieldAndPos(fields, seg.Name)
		if def == nil {
			return 0, fmt.Errorf("%w: %q in record %q", domain.ErrUnknownField, seg.Name, key)
		}
		node, err = memberNode(pl, node, seg.Name, pos, positionalOK)
		if err != nil {
			return 0, fmt.Errorf("record %q: %w", key, err)
		}
		if seg.HasIndex {
			node, err = elementNode(pl, node, seg.Index)
			if err != nil {
				return 0, fmt.Errorf("record %q field %q: %w", key, seg.Name, err)
			}
			if def.Elem != nil {
				def = def.Elem
			}
		}
		fields = def.Fields
		// Nested struct literals without designators are positional
		// against their definition order.
		positionalOK = true
	}
	return node, nil
}

func fieldAndPos(defs []domain.FieldDef, name string) (*domain.FieldDef, int) {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i], i
		}
	}
	return nil, -1
}

func entryForKey(pl *ParsedLiteral, schema *domain.TableSchema, key string) (int, error) {
	if schema.Mode == domain.ModePositional {
		idx, err := strconv.Atoi(key)
		entries := pl.Entries()
		if err != nil || idx < 0 || idx >= len(entries) {
			return 0, fmt.Errorf("%w: %q in table %q", domain.ErrUnknownRecord, key, schema.Name)
		}
		return entries[idx], nil
	}
	entry, ok := pl.Entry(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q in table %q", domain.ErrUnknownRecord, key, schema.Name)
	}
	return entry, nil
}

// memberNode resolves one member inside a brace node: by designator when
// present, by definition position when the literal is undesignated and
// positional matching is allowed at this level.
func memberNode(pl *ParsedLiteral, node int, name string, pos int, positionalOK bool) (int, error) {
	n := &pl.Nodes[node]

	// A single-field positional entry may store the value directly,
	// without braces.
	if n.Kind != KindBrace {
		if positionalOK && pos == 0 {
			return node, nil
		}
		return 0, fmt.Errorf("%w: %q is not a struct literal", domain.ErrUnknownField, name)
	}

	if field, ok := pl.FieldOf(node, name); ok {
		return pl.Nodes[field].Val, nil
	}
	if positionalOK && !hasDesignatedFields(pl, node) {
		return elementNode(pl, node, pos)
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
}

func hasDesignatedFields(pl *ParsedLiteral, node int) bool {
	for _, child := range pl.Nodes[node].Children {
		if pl.Nodes[child].Kind == KindField {
			return true
		}
	}
	return false
}

// elementNode returns the idx-th positional element of a brace node,
// skipping opaque regions.
func elementNode(pl *ParsedLiteral, node int, idx int) (int, error) {
	n := &pl.Nodes[node]
	if n.Kind != KindBrace {
		return 0, fmt.Errorf("%w: value is not a brace list", domain.ErrUnknownField)
	}
	pos := 0
	for _, child := range n.Children {
		c := &pl.Nodes[child]
		if c.Kind == KindOpaque {
			continue
		}
		target := child
		if c.Kind == KindEntry || c.Kind == KindField {
			target = c.Val
		}
		if pos == idx {
			return target, nil
		}
		pos++
	}
	return 0, fmt.Errorf("%w: index %d out of range", domain.ErrUnknownField, idx)
}

// RenderValue produces the canonical C text for a value, following the
// conventions of the text it replaces: decimal stays decimal, hex stays
// hex, wrapped strings stay wrapped.
func RenderValue(v domain.Value, def *domain.FieldDef, orig string) (string, error) {
	switch v.Kind {
	case domain.ValueInteger:
		if v.Hex || strings.HasPrefix(orig, "0x") || strings.HasPrefix(orig, "0X") {
			if hexDigitsLower(orig) {
				return fmt.Sprintf("0x%x", v.Int), nil
			}
			return fmt.Sprintf("0x%X", v.Int), nil
		}
		return strconv.FormatInt(v.Int, 10), nil

	case domain.ValueEnum, domain.ValueRef:
		return v.Text, nil

	case domain.ValueString:
		quoted := quoteC(v.Text)
		wrapper := ""
		if def != nil {
			wrapper = def.Wrapper
		}
		if wrapper == "" {
			if open := strings.IndexByte(orig, '('); open > 0 && strings.HasSuffix(orig, ")") {
				if w := strings.TrimSpace(orig[:open]); isIdentText(w) {
					wrapper = w
				}
			}
		}
		if wrapper != "" {
			return wrapper + "(" + quoted + ")", nil
		}
		return quoted, nil

	case domain.ValueList:
		var elemDef *domain.FieldDef
		if def != nil {
			elemDef = def.Elem
		}
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			text, err := RenderValue(e, elemDef, "")
			if err != nil {
				return "", err
			}
			parts[i] = text
		}
		return "{" + strings.Join(parts, ", ") + "}", nil

	case domain.ValueRecord:
		parts := make([]string, 0, len(v.FieldOrder))
		for _, name := range v.FieldOrder {
			var sub *domain.FieldDef
			if def != nil {
				for i := range def.Fields {
					if def.Fields[i].Name == name {
						sub = &def.Fields[i]
						break
					}
				}
			}
			text, err := RenderValue(v.Fields[name], sub, "")
			if err != nil {
				return "", err
			}
			parts = append(parts, "."+name+" = "+text)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil

	default:
		return "", fmt.Errorf("%w: cannot render value kind %s", domain.ErrInvalidInput, v.Kind)
	}
}

// hexDigitsLower reports whether the original hex literal used lowercase
// digits. All-numeric literals have no casing to follow and stay with the
// uppercase default.
func hexDigitsLower(orig string) bool {
	if !strings.HasPrefix(orig, "0x") && !strings.HasPrefix(orig, "0X") {
		return false
	}
	for i := 2; i < len(orig); i++ {
		switch c := orig[i]; {
		case c >= 'a' && c <= 'f':
			return true
		case c >= 'A' && c <= 'F':
			return false
		}
	}
	return false
}

// quoteC renders a C string literal. The escape set matches what decomp
// table strings actually use.
func quoteC(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isIdentText(s string) bool {
	if s == "" {
		return false
	}
	if !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
