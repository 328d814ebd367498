package domain

// PassthroughField is a field present in source but not declared in the
// schema. The raw initializer text is preserved verbatim so unrelated edits
// never drop it.
type PassthroughField struct {
	// Name is the source designator, or empty for positional entries.
	Name string

	// Text is the verbatim value text from source.
	Text string
}

// Record is one entry of a table, keyed by its natural key
// (e.g. SPECIES_BULBASAUR). Keys are unique within a table.
type Record struct {
	// Key is the record's natural key symbol.
	Key string

	// Fields maps schema field names to extracted values.
	Fields map[string]Value

	// FieldOrder preserves source order of the schema-declared fields.
	FieldOrder []string

	// Passthrough holds fields present in source but absent from the
	// schema, in source order.
	Passthrough []PassthroughField
}

// Field returns the value for a schema field name.
func (r *Record) Field(name string) (Value, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// At resolves a field path against the record's extracted values.
func (r *Record) At(path FieldPath) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}
	v, ok := r.Fields[path[0].Name]
	if !ok {
		return Value{}, false
	}
	return valueAt(v, path, 0)
}

func valueAt(v Value, path FieldPath, i int) (Value, bool) {
	seg := path[i]
	if seg.HasIndex {
		if v.Kind != ValueList || seg.Index >= len(v.Elems) {
			return Value{}, false
		}
		v = v.Elems[seg.Index]
	}
	if i == len(path)-1 {
		return v, true
	}
	if v.Kind != ValueRecord {
		return Value{}, false
	}
	next, ok := v.Fields[path[i+1].Name]
	if !ok {
		return Value{}, false
	}
	return valueAt(next, path, i+1)
}
