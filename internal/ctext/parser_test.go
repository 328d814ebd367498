package ctext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// speciesFixture mimics the shape of a real species_info.h, including the
// constructs the grammar must tolerate: comments, conditional blocks,
// macro-call values, nested literals, hex literals and trailing commas.
const speciesFixture = `#include "constants/species.h"

extern const struct SpeciesInfo gSpeciesInfo[];

// Table of base stats and dex data, one entry per species.
const struct SpeciesInfo gSpeciesInfo[] =
{
    [SPECIES_NONE] = {0},

    /* A starter. */
    [SPECIES_BULBASAUR] =
    {
        .baseHP        = 45,
        .baseAttack    = 49,
        .baseDefense   = 49,
        .types = MON_TYPES(TYPE_GRASS, TYPE_POISON),
        .catchRate = 45,
        .expYield = 0x40,
        .abilities = { ABILITY_OVERGROW, ABILITY_NONE, ABILITY_CHLOROPHYLL },
        .speciesName = _("Bulbasaur"),
#if P_UPDATED_EGG_GROUPS >= GEN_8
        .eggGroups = MON_EGG_GROUPS(EGG_GROUP_MONSTER, EGG_GROUP_GRASS),
#endif
        .evolutions = EVOLUTION({EVO_LEVEL, 16, SPECIES_IVYSAUR}),
        .levelUpLearnset = sBulbasaurLevelUpLearnset, // shared with forms
    },

    [SPECIES_IVYSAUR] =
    {
        .baseHP = 60,
        .baseAttack = 62,
        .friendship = STANDARD_FRIENDSHIP,
    },
};
`

func locateFixture(t *testing.T) *ParsedLiteral {
	t.Helper()
	src := []byte(speciesFixture)
	span, err := Locate(src, domain.TableLocator{Symbol: "gSpeciesInfo"})
	require.NoError(t, err)
	pl, err := Parse(src, "src/data/pokemon/species_info.h", "gSpeciesInfo", span)
	require.NoError(t, err)
	return pl
}

func TestLocatePlainDeclaration(t *testing.T) {
	src := []byte(speciesFixture)
	span, err := Locate(src, domain.TableLocator{Symbol: "gSpeciesInfo"})
	require.NoError(t, err)

	// The extern declaration must be skipped; the located declaration
	// starts at the "const" line.
	decl := string(src[span.Decl.Start:span.Decl.End])
	assert.True(t, len(decl) > 0)
	assert.Contains(t, decl, "const struct SpeciesInfo gSpeciesInfo[] =")
	assert.NotContains(t, decl, "extern")

	body := string(src[span.Body.Start:span.Body.End])
	assert.Equal(t, byte('{'), body[0])
	assert.Equal(t, byte('}'), body[len(body)-1])
}

func TestLocateNotFound(t *testing.T) {
	_, err := Locate([]byte(speciesFixture), domain.TableLocator{Symbol: "gBaseStats"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocateMacroDeclaration(t *testing.T) {
	src := []byte(`
SPECIES_TABLE(gSpeciesInfoGen9, GEN_9) =
{
    [SPECIES_SPRIGATITO] = { .baseHP = 40 },
};
`)
	span, err := Locate(src, domain.TableLocator{
		Symbol: "gSpeciesInfoGen9",
		Macro:  "SPECIES_TABLE",
	})
	require.NoError(t, err)

	pl, err := Parse(src, "test.h", "gSpeciesInfoGen9", span)
	require.NoError(t, err)
	_, ok := pl.Entry("SPECIES_SPRIGATITO")
	assert.True(t, ok)
}

func TestParseEntries(t *testing.T) {
	pl := locateFixture(t)

	entries := pl.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "SPECIES_NONE", pl.Nodes[entries[0]].Key)
	assert.Equal(t, "SPECIES_BULBASAUR", pl.Nodes[entries[1]].Key)
	assert.Equal(t, "SPECIES_IVYSAUR", pl.Nodes[entries[2]].Key)
}

func TestParseFieldProvenance(t *testing.T) {
	pl := locateFixture(t)

	entry, ok := pl.Entry("SPECIES_BULBASAUR")
	require.True(t, ok)
	brace := pl.Nodes[entry].Val
	require.Equal(t, KindBrace, pl.Nodes[brace].Kind)

	field, ok := pl.FieldOf(brace, "baseHP")
	require.True(t, ok)
	val := pl.Nodes[field].Val
	assert.Equal(t, "45", pl.Text(pl.Nodes[val].Span))
	assert.Equal(t, ClassNumber, pl.Nodes[val].Class)

	field, ok = pl.FieldOf(brace, "expYield")
	require.True(t, ok)
	val = pl.Nodes[field].Val
	assert.Equal(t, "0x40", pl.Text(pl.Nodes[val].Span))

	field, ok = pl.FieldOf(brace, "types")
	require.True(t, ok)
	val = pl.Nodes[field].Val
	assert.Equal(t, ClassCall, pl.Nodes[val].Class)
	assert.Equal(t, "MON_TYPES(TYPE_GRASS, TYPE_POISON)", pl.Text(pl.Nodes[val].Span))

	field, ok = pl.FieldOf(brace, "speciesName")
	require.True(t, ok)
	val = pl.Nodes[field].Val
	assert.Equal(t, ClassCall, pl.Nodes[val].Class)
	assert.Equal(t, `_("Bulbasaur")`, pl.Text(pl.Nodes[val].Span))
}

func TestParseNestedList(t *testing.T) {
	pl := locateFixture(t)

	entry, _ := pl.Entry("SPECIES_BULBASAUR")
	brace := pl.Nodes[entry].Val
	field, ok := pl.FieldOf(brace, "abilities")
	require.True(t, ok)

	list := pl.Nodes[field].Val
	require.Equal(t, KindBrace, pl.Nodes[list].Kind)
	require.Len(t, pl.Nodes[list].Children, 3)

	second := pl.Nodes[list].Children[1]
	assert.Equal(t, "ABILITY_NONE", pl.Text(pl.Nodes[second].Span))
}

func TestParseOpaqueConditional(t *testing.T) {
	pl := locateFixture(t)

	entry, _ := pl.Entry("SPECIES_BULBASAUR")
	brace := pl.Nodes[entry].Val

	var opaque *Node
	for _, child := range pl.Nodes[brace].Children {
		if pl.Nodes[child].Kind == KindOpaque {
			opaque = &pl.Nodes[child]
			break
		}
	}
	require.NotNil(t, opaque, "conditional block should produce an opaque node")

	text := pl.Text(opaque.Span)
	assert.Contains(t, text, "#if P_UPDATED_EGG_GROUPS")
	assert.Contains(t, text, ".eggGroups")
	assert.Contains(t, text, "#endif")

	// The field hidden inside the conditional is not addressable.
	_, ok := pl.FieldOf(brace, "eggGroups")
	assert.False(t, ok)
}

func TestParseLeadingComment(t *testing.T) {
	pl := locateFixture(t)

	entry, _ := pl.Entry("SPECIES_BULBASAUR")
	comment := pl.Nodes[entry].Comment
	require.NotZero(t, comment.Len())
	assert.Equal(t, "/* A starter. */", pl.Text(comment))
}

func TestParsePositionalEntries(t *testing.T) {
	src := []byte(`static const u16 sStarterMon[STARTER_MON_COUNT] =
{
    SPECIES_TREECKO,
    SPECIES_TORCHIC,
    SPECIES_MUDKIP,
};
`)
	span, err := Locate(src, domain.TableLocator{Symbol: "sStarterMon"})
	require.NoError(t, err)
	pl, err := Parse(src, "src/starter_choose.c", "sStarterMon", span)
	require.NoError(t, err)

	entries := pl.Entries()
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Empty(t, pl.Nodes[e].Key)
	}
	assert.Equal(t, "SPECIES_TORCHIC", pl.Text(pl.Nodes[pl.Nodes[entries[1]].Val].Span))
}

func TestParseMalformed(t *testing.T) {
	src := []byte(`const struct Foo gFoo[] = { [KEY_A] 45, };`)
	span, err := Locate(src, domain.TableLocator{Symbol: "gFoo"})
	require.NoError(t, err)

	_, err = Parse(src, "foo.h", "gFoo", span)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedTable)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "45", parseErr.Token)
	assert.Positive(t, parseErr.Offset)
}

func TestParseUnterminated(t *testing.T) {
	src := []byte(`const struct Foo gFoo[] = { [KEY_A] = { .x = 1,`)
	_, err := Locate(src, domain.TableLocator{Symbol: "gFoo"})
	// An unterminated body never matches a complete declaration.
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
