package domain

import (
	"fmt"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	// ValueInteger is a numeric literal. The original base is preserved so
	// the writer can render hex back as hex.
	ValueInteger ValueKind = iota
	// ValueEnum is a bare symbolic constant from a known enum domain
	// (e.g. TYPE_GRASS).
	ValueEnum
	// ValueString is a quoted string literal, with any project wrapper
	// macro (e.g. _("...")) stripped.
	ValueString
	// ValueRef is an identifier or macro-call reference preserved as its
	// original source text (e.g. MOVE_TACKLE, MON_COORDS_SIZE(64, 64),
	// conditional expressions). Never interpreted.
	ValueRef
	// ValueRecord is a nested designated-initializer literal.
	ValueRecord
	// ValueList is an ordered brace list of values.
	ValueList
)

// String returns the kind name used in schema files and messages.
func (k ValueKind) String() string {
	switch k {
	case ValueInteger:
		return "integer"
	case ValueEnum:
		return "enum"
	case ValueString:
		return "string"
	case ValueRef:
		return "reference"
	case ValueRecord:
		return "record"
	case ValueList:
		return "list"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is one field value of a Record. Exactly one variant is meaningful,
// selected by Kind. Values are immutable by convention: services copy
// rather than mutate shared instances.
type Value struct {
	Kind ValueKind

	// Int holds the numeric value for ValueInteger.
	Int int64

	// Hex records that an integer was written in hexadecimal, so edits
	// keep the original convention.
	Hex bool

	// Text holds the enum symbol, string content, or verbatim reference
	// text depending on Kind.
	Text string

	// Fields holds nested record fields for ValueRecord, in FieldOrder.
	Fields map[string]Value

	// FieldOrder preserves source order of nested record fields.
	FieldOrder []string

	// Elems holds list elements for ValueList.
	Elems []Value
}

// IntValue returns an integer Value in decimal convention.
func IntValue(n int64) Value {
	return Value{Kind: ValueInteger, Int: n}
}

// HexValue returns an integer Value rendered in hexadecimal.
func HexValue(n int64) Value {
	return Value{Kind: ValueInteger, Int: n, Hex: true}
}

// EnumValue returns an enum symbol Value.
func EnumValue(symbol string) Value {
	return Value{Kind: ValueEnum, Text: symbol}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Text: s}
}

// RefValue returns an opaque reference Value carrying verbatim source text.
func RefValue(text string) Value {
	return Value{Kind: ValueRef, Text: text}
}

// ListValue returns a list Value over the given elements.
func ListValue(elems ...Value) Value {
	return Value{Kind: ValueList, Elems: elems}
}

// RecordValue returns a nested record Value preserving field order.
func RecordValue(order []string, fields map[string]Value) Value {
	return Value{Kind: ValueRecord, Fields: fields, FieldOrder: order}
}

// String renders a human-readable form for logs and CLI output.
// This is not the C rendering; see the writer for that.
func (v Value) String() string {
	switch v.Kind {
	case ValueInteger:
		if v.Hex {
			return fmt.Sprintf("0x%X", v.Int)
		}
		return fmt.Sprintf("%d", v.Int)
	case ValueEnum, ValueRef:
		return v.Text
	case ValueString:
		return fmt.Sprintf("%q", v.Text)
	case ValueList:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ValueRecord:
		parts := make([]string, 0, len(v.FieldOrder))
		for _, name := range v.FieldOrder {
			parts = append(parts, name+"="+v.Fields[name].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// Equal reports whether two values are semantically identical.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueInteger:
		return v.Int == other.Int
	case ValueEnum, ValueString, ValueRef:
		return v.Text == other.Text
	case ValueList:
		if len(v.Elems) != len(other.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	case ValueRecord:
		if len(v.Fields) != len(other.Fields) {
			return false
		}
		for name, val := range v.Fields {
			ov, ok := other.Fields[name]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
