package file

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// schemaDoc is the TOML shape of one table schema definition.
type schemaDoc struct {
	Table   tableDoc   `toml:"table"`
	Locator locatorDoc `toml:"locator"`
	Fields  []fieldDoc `toml:"fields"`
}

type tableDoc struct {
	Name        string `toml:"name"`
	Mode        string `toml:"mode"`
	KeyPrefix   string `toml:"key_prefix"`
	Passthrough *bool  `toml:"passthrough"`
}

type locatorDoc struct {
	Glob   string `toml:"glob"`
	Symbol string `toml:"symbol"`
	Macro  string `toml:"macro"`
}

type fieldDoc struct {
	Name        string     `toml:"name"`
	Kind        string     `toml:"kind"`
	Required    bool       `toml:"required"`
	Default     *string    `toml:"default"`
	Min         *int64     `toml:"min"`
	Max         *int64     `toml:"max"`
	Enum        []string   `toml:"enum"`
	MaxLen      int        `toml:"max_len"`
	Wrapper     string     `toml:"wrapper"`
	RefPrefixes []string   `toml:"ref_prefixes"`
	Elem        *fieldDoc  `toml:"elem"`
	Fields      []fieldDoc `toml:"fields"`
}

// ParseSchema decodes one TOML schema definition.
func ParseSchema(data []byte) (*domain.TableSchema, error) {
	var doc schemaDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return doc.toDomain()
}

func (d *schemaDoc) toDomain() (*domain.TableSchema, error) {
	if d.Table.Name == "" {
		return nil, fmt.Errorf("%w: schema has no table name", domain.ErrInvalidInput)
	}
	if d.Locator.Symbol == "" || d.Locator.Glob == "" {
		return nil, fmt.Errorf("%w: table %q has no locator", domain.ErrInvalidInput, d.Table.Name)
	}

	mode := domain.ModeDesignated
	switch d.Table.Mode {
	case "", string(domain.ModeDesignated):
	case string(domain.ModePositional):
		mode = domain.ModePositional
	default:
		return nil, fmt.Errorf("%w: table %q has unknown mode %q", domain.ErrInvalidInput, d.Table.Name, d.Table.Mode)
	}

	schema := &domain.TableSchema{
		Name: d.Table.Name,
		Locator: domain.TableLocator{
			Glob:   d.Locator.Glob,
			Symbol: d.Locator.Symbol,
			Macro:  d.Locator.Macro,
		},
		Mode:        mode,
		KeyPrefix:   d.Table.KeyPrefix,
		Passthrough: d.Table.Passthrough == nil || *d.Table.Passthrough,
	}

	for i := range d.Fields {
		def, err := d.Fields[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", d.Table.Name, err)
		}
		schema.Fields = append(schema.Fields, *def)
	}
	return schema, nil
}

func (f *fieldDoc) toDomain() (*domain.FieldDef, error) {
	kind, err := parseKind(f.Kind)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}

	def := &domain.FieldDef{
		Name:        f.Name,
		Kind:        kind,
		Required:    f.Required,
		Enum:        f.Enum,
		MaxLen:      f.MaxLen,
		Wrapper:     f.Wrapper,
		RefPrefixes: f.RefPrefixes,
	}
	if f.Min != nil && f.Max != nil {
		def.Min, def.Max, def.HasRange = *f.Min, *f.Max, true
	}
	if f.Default != nil {
		v, err := defaultValue(kind, *f.Default)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		def.Default = &v
	}
	if f.Elem != nil {
		elem, err := f.Elem.toDomain()
		if err != nil {
			return nil, fmt.Errorf("field %q element: %w", f.Name, err)
		}
		def.Elem = elem
	}
	for i := range f.Fields {
		sub, err := f.Fields[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		def.Fields = append(def.Fields, *sub)
	}
	return def, nil
}

func parseKind(s string) (domain.ValueKind, error) {
	switch s {
	case "integer":
		return domain.ValueInteger, nil
	case "enum":
		return domain.ValueEnum, nil
	case "string":
		return domain.ValueString, nil
	case "ref", "reference":
		return domain.ValueRef, nil
	case "record":
		return domain.ValueRecord, nil
	case "list":
		return domain.ValueList, nil
	default:
		return 0, fmt.Errorf("%w: unknown field kind %q", domain.ErrInvalidInput, s)
	}
}

func defaultValue(kind domain.ValueKind, raw string) (domain.Value, error) {
	switch kind {
	case domain.ValueInteger:
		var n int64
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			return domain.Value{}, fmt.Errorf("%w: default %q is not an integer", domain.ErrInvalidInput, raw)
		}
		return domain.IntValue(n), nil
	case domain.ValueString:
		return domain.StringValue(raw), nil
	case domain.ValueEnum:
		return domain.EnumValue(raw), nil
	case domain.ValueRef:
		return domain.RefValue(raw), nil
	default:
		return domain.Value{}, fmt.Errorf("%w: kind %s cannot carry a default", domain.ErrInvalidInput, kind)
	}
}
