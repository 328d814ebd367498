// Package extract lifts parsed table literals into schema-shaped records.
//
// Extraction is lenient about value domains: source trees routinely hold
// values a schema would reject as edits, and loading must never fail on
// them. Shape, not domain, is enforced here; anything the schema does not
// describe is preserved as passthrough so a later write cannot drop it.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/ctext"
)

// TableData is the extracted model of one table: records keyed by their
// natural key, with source order preserved.
type TableData struct {
	// Schema is the schema the table was extracted against.
	Schema *domain.TableSchema

	// File is the source path the table was parsed from, relative to the
	// checkout root.
	File string

	// Keys lists record keys in source order.
	Keys []string

	// Records maps keys to extracted records.
	Records map[string]*domain.Record
}

// Record returns the record for a key.
func (t *TableData) Record(key string) (*domain.Record, bool) {
	r, ok := t.Records[key]
	return r, ok
}

// Extract converts a parsed literal into records per the schema. Fields
// present in source but absent from the schema become passthrough when the
// schema allows it, and an error otherwise. Missing required fields fail
// with domain.ErrSchemaMismatch; missing optional fields take the schema
// default when one is declared.
func Extract(schema *domain.TableSchema, pl *ctext.ParsedLiteral) (*TableData, error) {
	data := &TableData{
		Schema:  schema,
		File:    pl.File,
		Records: make(map[string]*domain.Record),
	}

	for i, entry := range pl.Entries() {
		n := &pl.Nodes[entry]

		var key string
		switch schema.Mode {
		case domain.ModePositional:
			key = strconv.Itoa(i)
		default:
			key = n.Key
			if key == "" {
				return nil, fmt.Errorf("%w: table %q: entry %d has no designator",
					domain.ErrSchemaMismatch, schema.Name, i)
			}
			// Entries outside the key prefix (sentinel rows, aliases) are
			// not part of the model. The writer never touches them.
			if schema.KeyPrefix != "" && !strings.HasPrefix(key, schema.KeyPrefix) {
				continue
			}
		}

		if _, dup := data.Records[key]; dup {
			return nil, fmt.Errorf("%w: table %q: duplicate key %q",
				domain.ErrMalformedTable, schema.Name, key)
		}

		rec, err := extractRecord(schema, pl, n.Val, key)
		if err != nil {
			return nil, fmt.Errorf("table %q record %q: %w", schema.Name, key, err)
		}
		data.Keys = append(data.Keys, key)
		data.Records[key] = rec
	}
	return data, nil
}

func extractRecord(schema *domain.TableSchema, pl *ctext.ParsedLiteral, node int, key string) (*domain.Record, error) {
	rec := &domain.Record{
		Key:    key,
		Fields: make(map[string]domain.Value),
	}

	n := &pl.Nodes[node]
	if n.Kind != ctext.KindBrace {
		// Flat positional tables store one value per entry.
		if len(schema.Fields) != 1 {
			return nil, fmt.Errorf("%w: entry is not a struct literal", domain.ErrSchemaMismatch)
		}
		def := &schema.Fields[0]
		v, err := valueFromNode(pl, node, def)
		if err != nil {
			return nil, err
		}
		rec.Fields[def.Name] = v
		rec.FieldOrder = []string{def.Name}
		return rec, fillDefaults(schema.Fields, rec)
	}

	designated := hasDesignated(pl, node)
	pos := 0
	for _, child := range n.Children {
		c := &pl.Nodes[child]
		switch c.Kind {
		case ctext.KindOpaque:
			rec.Passthrough = append(rec.Passthrough, domain.PassthroughField{
				Text: pl.Text(c.Span),
			})

		case ctext.KindField:
			def, ok := schema.Field(c.Key)
			if !ok {
				if !schema.Passthrough {
					return nil, fmt.Errorf("%w: unknown field %q", domain.ErrSchemaMismatch, c.Key)
				}
				rec.Passthrough = append(rec.Passthrough, domain.PassthroughField{
					Name: c.Key,
					Text: pl.Text(pl.Nodes[c.Val].Span),
				})
				continue
			}
			v, err := valueFromNode(pl, c.Val, def)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", c.Key, err)
			}
			rec.Fields[def.Name] = v
			rec.FieldOrder = append(rec.FieldOrder, def.Name)

		default:
			// Undesignated members map positionally against the field list.
			// Mixing designators and positions in one literal is outside the
			// supported grammar.
			if designated {
				return nil, fmt.Errorf("%w: undesignated member in designated literal",
					domain.ErrSchemaMismatch)
			}
			if pos >= len(schema.Fields) {
				if !schema.Passthrough {
					return nil, fmt.Errorf("%w: member %d beyond declared fields",
						domain.ErrSchemaMismatch, pos)
				}
				rec.Passthrough = append(rec.Passthrough, domain.PassthroughField{
					Text: pl.Text(c.Span),
				})
				pos++
				continue
			}
			def := &schema.Fields[pos]
			v, err := valueFromNode(pl, child, def)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", def.Name, err)
			}
			rec.Fields[def.Name] = v
			rec.FieldOrder = append(rec.FieldOrder, def.Name)
			pos++
		}
	}
	return rec, fillDefaults(schema.Fields, rec)
}

func fillDefaults(defs []domain.FieldDef, rec *domain.Record) error {
	for i := range defs {
		def := &defs[i]
		if _, ok := rec.Fields[def.Name]; ok {
			continue
		}
		if def.Required {
			return fmt.Errorf("%w: missing required field %q", domain.ErrSchemaMismatch, def.Name)
		}
		if def.Default != nil {
			rec.Fields[def.Name] = *def.Default
			rec.FieldOrder = append(rec.FieldOrder, def.Name)
		}
	}
	return nil
}

func hasDesignated(pl *ctext.ParsedLiteral, brace int) bool {
	for _, child := range pl.Nodes[brace].Children {
		if pl.Nodes[child].Kind == ctext.KindField {
			return true
		}
	}
	return false
}

// valueFromNode converts one value node per the field definition. Shapes
// the definition does not anticipate degrade to opaque references rather
// than failing: a macro call where an integer is declared is normal in
// decomp sources.
func valueFromNode(pl *ctext.ParsedLiteral, node int, def *domain.FieldDef) (domain.Value, error) {
	n := &pl.Nodes[node]
	text := pl.Text(n.Span)

	switch def.Kind {
	case domain.ValueInteger:
		if n.Class == ctext.ClassNumber {
			v, hex, err := parseCInt(text)
			if err != nil {
				return domain.Value{}, fmt.Errorf("%w: bad integer literal %q", domain.ErrSchemaMismatch, text)
			}
			if hex {
				return domain.HexValue(v), nil
			}
			return domain.IntValue(v), nil
		}
		return domain.RefValue(text), nil

	case domain.ValueEnum:
		if n.Class == ctext.ClassIdent {
			return domain.EnumValue(text), nil
		}
		return domain.RefValue(text), nil

	case domain.ValueString:
		if n.Class == ctext.ClassString {
			s, err := parseCString(text)
			if err != nil {
				return domain.Value{}, fmt.Errorf("%w: bad string literal %q", domain.ErrSchemaMismatch, text)
			}
			return domain.StringValue(s), nil
		}
		if n.Class == ctext.ClassCall {
			if inner, ok := unwrapCall(text, def.Wrapper); ok {
				s, err := parseCString(inner)
				if err == nil {
					return domain.StringValue(s), nil
				}
			}
		}
		return domain.RefValue(text), nil

	case domain.ValueRef:
		return domain.RefValue(text), nil

	case domain.ValueList:
		if n.Kind != ctext.KindBrace {
			return domain.RefValue(text), nil
		}
		elemDef := def.Elem
		if elemDef == nil {
			elemDef = &domain.FieldDef{Kind: domain.ValueRef}
		}
		var elems []domain.Value
		for _, child := range n.Children {
			c := &pl.Nodes[child]
			if c.Kind == ctext.KindOpaque {
				continue
			}
			target := child
			if c.Kind == ctext.KindEntry || c.Kind == ctext.KindField {
				target = c.Val
			}
			v, err := valueFromNode(pl, target, elemDef)
			if err != nil {
				return domain.Value{}, fmt.Errorf("element %d: %w", len(elems), err)
			}
			elems = append(elems, v)
		}
		return domain.ListValue(elems...), nil

	case domain.ValueRecord:
		if n.Kind != ctext.KindBrace {
			return domain.RefValue(text), nil
		}
		fields := make(map[string]domain.Value)
		var order []string
		designated := hasDesignated(pl, node)
		pos := 0
		for _, child := range n.Children {
			c := &pl.Nodes[child]
			if c.Kind == ctext.KindOpaque {
				continue
			}
			var sub *domain.FieldDef
			target := child
			if c.Kind == ctext.KindField {
				for i := range def.Fields {
					if def.Fields[i].Name == c.Key {
						sub = &def.Fields[i]
						break
					}
				}
				target = c.Val
				if sub == nil {
					// Unknown nested fields stay opaque inside the value.
					fields[c.Key] = domain.RefValue(pl.Text(pl.Nodes[target].Span))
					order = append(order, c.Key)
					continue
				}
			} else {
				if designated || pos >= len(def.Fields) {
					return domain.Value{}, fmt.Errorf("%w: member %d of nested literal",
						domain.ErrSchemaMismatch, pos)
				}
				sub = &def.Fields[pos]
				pos++
			}
			v, err := valueFromNode(pl, target, sub)
			if err != nil {
				return domain.Value{}, fmt.Errorf("sub-field %q: %w", sub.Name, err)
			}
			fields[sub.Name] = v
			order = append(order, sub.Name)
		}
		return domain.RecordValue(order, fields), nil

	default:
		return domain.Value{}, fmt.Errorf("%w: field %q has unknown kind", domain.ErrSchemaMismatch, def.Name)
	}
}

// parseCInt parses a C integer literal, tolerating unsigned/long suffixes
// and a leading sign. Reports whether the literal was hexadecimal.
func parseCInt(text string) (int64, bool, error) {
	s := strings.TrimRight(text, "uUlL")
	if s == "" {
		return 0, false, fmt.Errorf("empty literal")
	}
	body := strings.TrimLeft(s, "+-")
	hex := strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X")
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false, err
	}
	return v, hex, nil
}

// parseCString decodes one or more adjacent C string literals into their
// concatenated content.
func parseCString(text string) (string, error) {
	var b strings.Builder
	i := 0
	seen := false
	for i < len(text) {
		switch c := text[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			seen = true
			i++
			for {
				if i >= len(text) {
					return "", fmt.Errorf("unterminated string in %q", text)
				}
				ch := text[i]
				if ch == '"' {
					i++
					break
				}
				if ch == '\\' && i+1 < len(text) {
					i++
					switch text[i] {
					case 'n':
						b.WriteByte('\n')
					case 't':
						b.WriteByte('\t')
					case '"':
						b.WriteByte('"')
					case '\\':
						b.WriteByte('\\')
					case '0':
						b.WriteByte(0)
					default:
						b.WriteByte('\\')
						b.WriteByte(text[i])
					}
					i++
					continue
				}
				b.WriteByte(ch)
				i++
			}
		default:
			return "", fmt.Errorf("unexpected %q in string literal %q", c, text)
		}
	}
	if !seen {
		return "", fmt.Errorf("no string literal in %q", text)
	}
	return b.String(), nil
}

// unwrapCall strips a wrapper macro call, WRAPPER( inner ), returning the
// inner text. When wrapper is empty any single identifier wrapper is
// accepted.
func unwrapCall(text, wrapper string) (string, bool) {
	open := strings.IndexByte(text, '(')
	if open <= 0 || !strings.HasSuffix(text, ")") {
		return "", false
	}
	name := strings.TrimSpace(text[:open])
	if wrapper != "" && name != wrapper {
		return "", false
	}
	return strings.TrimSpace(text[open+1 : len(text)-1]), true
}
