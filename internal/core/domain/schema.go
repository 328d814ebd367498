package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TableLocator identifies where a table's declaration lives inside a
// project checkout.
type TableLocator struct {
	// Glob is the source file path (or glob) relative to the checkout root,
	// e.g. "src/data/pokemon/species_info.h". Projects that split one
	// logical table across files use a glob matching all of them.
	Glob string

	// Symbol is the declared array symbol, e.g. "gSpeciesInfo".
	Symbol string

	// Macro, when non-empty, names a declaration macro: the table is
	// declared as Macro(...Symbol...) = { ... } rather than as a literal
	// array declaration.
	Macro string
}

// TableMode selects how initializer entries map fields to schema names.
type TableMode string

const (
	// ModeDesignated matches fields by designator (.baseHP = 45).
	ModeDesignated TableMode = "designated"
	// ModePositional matches entries positionally against the field list.
	// Used for flat arrays such as starter species lists.
	ModePositional TableMode = "positional"
)

// FieldDef describes one field of a table schema: its model name, value
// kind, and the domain constraining valid values.
type FieldDef struct {
	// Name is both the model field name and, for designated tables, the
	// C designator (without the leading dot).
	Name string

	// Kind is the value kind this field accepts.
	Kind ValueKind

	// Required marks fields that must be present in source.
	// Missing required fields fail extraction with ErrSchemaMismatch.
	Required bool

	// Default fills in missing optional fields during extraction.
	Default *Value

	// Min and Max bound integer fields, inclusive. Only meaningful when
	// HasRange is set.
	Min, Max int64
	HasRange bool

	// Enum is the set of valid symbols for enum fields.
	Enum []string

	// MaxLen bounds string fields. Zero means unbounded.
	MaxLen int

	// Wrapper names a macro wrapping string literals in source, e.g. "_"
	// for gettext-style _("Bulbasaur"). Extraction unwraps it; the writer
	// re-wraps edited values.
	Wrapper string

	// RefPrefixes lists allowed identifier prefixes for reference fields
	// (e.g. "ITEM_"). Empty means any identifier is accepted.
	RefPrefixes []string

	// Elem describes list element values for list fields.
	Elem *FieldDef

	// Fields describes nested record fields for record fields.
	Fields []FieldDef
}

// Validate checks a value against the field's kind and domain.
// All violations wrap ErrDomainViolation.
func (f *FieldDef) Validate(v Value) error {
	switch f.Kind {
	case ValueInteger:
		if v.Kind != ValueInteger {
			// Opaque references (macros, conditionals) are accepted where
			// an integer is expected: source tables routinely use symbolic
			// constants for numeric fields.
			if v.Kind == ValueRef {
				return nil
			}
			return fmt.Errorf("%w: field %q expects an integer, got %s", ErrDomainViolation, f.Name, v.Kind)
		}
		if f.HasRange && (v.Int < f.Min || v.Int > f.Max) {
			return fmt.Errorf("%w: field %q value %d outside range [%d, %d]",
				ErrDomainViolation, f.Name, v.Int, f.Min, f.Max)
		}
	case ValueEnum:
		if v.Kind != ValueEnum && v.Kind != ValueRef {
			return fmt.Errorf("%w: field %q expects an enum symbol, got %s", ErrDomainViolation, f.Name, v.Kind)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, v.Text) {
			return fmt.Errorf("%w: field %q has no symbol %q", ErrDomainViolation, f.Name, v.Text)
		}
	case ValueString:
		if v.Kind != ValueString {
			return fmt.Errorf("%w: field %q expects a string, got %s", ErrDomainViolation, f.Name, v.Kind)
		}
		if f.MaxLen > 0 && len(v.Text) > f.MaxLen {
			return fmt.Errorf("%w: field %q string exceeds %d characters", ErrDomainViolation, f.Name, f.MaxLen)
		}
	case ValueRef:
		if v.Kind != ValueRef && v.Kind != ValueEnum {
			return fmt.Errorf("%w: field %q expects a reference, got %s", ErrDomainViolation, f.Name, v.Kind)
		}
		if len(f.RefPrefixes) > 0 && !hasAnyPrefix(v.Text, f.RefPrefixes) {
			return fmt.Errorf("%w: field %q reference %q does not match prefixes %v",
				ErrDomainViolation, f.Name, v.Text, f.RefPrefixes)
		}
	case ValueList:
		if v.Kind != ValueList && v.Kind != ValueRef {
			return fmt.Errorf("%w: field %q expects a list, got %s", ErrDomainViolation, f.Name, v.Kind)
		}
		if v.Kind == ValueList && f.Elem != nil {
			for i, e := range v.Elems {
				if err := f.Elem.Validate(e); err != nil {
					return fmt.Errorf("element %d: %w", i, err)
				}
			}
		}
	case ValueRecord:
		if v.Kind != ValueRecord && v.Kind != ValueRef {
			return fmt.Errorf("%w: field %q expects a record, got %s", ErrDomainViolation, f.Name, v.Kind)
		}
		if v.Kind == ValueRecord {
			for _, sub := range f.Fields {
				fv, ok := v.Fields[sub.Name]
				if !ok {
					if sub.Required {
						return fmt.Errorf("%w: field %q missing required sub-field %q",
							ErrDomainViolation, f.Name, sub.Name)
					}
					continue
				}
				if err := sub.Validate(fv); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// TableSchema declares one table: where to find it, how entries map to
// records, and the field domains. Immutable once loaded; owned by the
// plugin registry.
type TableSchema struct {
	// Name is the logical table name (e.g. "species_info").
	Name string

	// Locator finds the table's declaration in the checkout.
	Locator TableLocator

	// Mode selects designated or positional field mapping.
	Mode TableMode

	// KeyPrefix, when set, constrains record keys (e.g. "SPECIES_").
	// Entries whose designator lacks the prefix are kept as passthrough.
	KeyPrefix string

	// Fields are the declared fields, in schema order. For positional
	// tables the order is the initializer order.
	Fields []FieldDef

	// Passthrough controls whether fields present in source but absent
	// from the schema are preserved opaquely. Defaults to true in loaded
	// schemas; turning it off makes unknown fields an extraction error.
	Passthrough bool
}

// Field returns the definition for a top-level field name.
func (s *TableSchema) Field(name string) (*FieldDef, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// FieldAt resolves a field path (e.g. "abilities[1]" or
// "evolutions[0].method") to its definition.
func (s *TableSchema) FieldAt(path FieldPath) (*FieldDef, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty field path", ErrInvalidInput)
	}
	def, ok := s.Field(path[0].Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in table %q", ErrUnknownField, path[0].Name, s.Name)
	}
	return resolveSegments(def, path)
}

func resolveSegments(def *FieldDef, path FieldPath) (*FieldDef, error) {
	cur := def
	for i, seg := range path {
		if i > 0 {
			next, ok := fieldIn(cur.Fields, seg.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, seg.Name)
			}
			cur = next
		}
		if seg.HasIndex {
			if cur.Kind != ValueList || cur.Elem == nil {
				return nil, fmt.Errorf("%w: %q is not indexable", ErrUnknownField, seg.Name)
			}
			cur = cur.Elem
		}
	}
	return cur, nil
}

func fieldIn(defs []FieldDef, name string) (*FieldDef, bool) {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i], true
		}
	}
	return nil, false
}

// PathSegment is one step of a field path: a field name with an optional
// list index.
type PathSegment struct {
	Name     string
	Index    int
	HasIndex bool
}

// FieldPath addresses a (possibly nested) field within a record.
type FieldPath []PathSegment

// String renders the path in its parseable form.
func (p FieldPath) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
		if seg.HasIndex {
			fmt.Fprintf(&b, "[%d]", seg.Index)
		}
	}
	return b.String()
}

// ParseFieldPath parses "name", "name[2]" and "name[0].sub" forms.
func ParseFieldPath(s string) (FieldPath, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty field path", ErrInvalidInput)
	}
	var path FieldPath
	for _, part := range strings.Split(s, ".") {
		name := part
		idx := -1
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("%w: malformed index in %q", ErrInvalidInput, part)
			}
			name = part[:open]
			n, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: malformed index in %q", ErrInvalidInput, part)
			}
			idx = n
		}
		if name == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidInput, s)
		}
		path = append(path, PathSegment{Name: name, Index: idx, HasIndex: idx >= 0})
	}
	return path, nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
