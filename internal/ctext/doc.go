// Package ctext parses and rewrites the C source subset used by decomp
// data tables: top-level array declarations initialised with designated
// struct literals.
//
// This is deliberately not a C parser. The grammar covers exactly the
// shapes found in hand-maintained table files - designated initializers,
// nested brace literals, macro-call values, comments, and conditional
// compilation blocks (kept as opaque spans) - and nothing else.
//
// Every parsed node carries byte-range provenance into the original
// source. The writer edits tables by splicing replacement text into those
// ranges, so all untouched bytes (whitespace, comments, macros, field
// order) survive round trips byte for byte.
package ctext
