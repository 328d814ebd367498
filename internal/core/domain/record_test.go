package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAt(t *testing.T) {
	rec := &Record{
		Key: "SPECIES_BULBASAUR",
		Fields: map[string]Value{
			"baseHP":    IntValue(45),
			"abilities": ListValue(RefValue("ABILITY_OVERGROW"), RefValue("ABILITY_NONE")),
			"evolutions": ListValue(RecordValue(
				[]string{"method", "param", "targetSpecies"},
				map[string]Value{
					"method":        EnumValue("EVO_LEVEL"),
					"param":         IntValue(16),
					"targetSpecies": RefValue("SPECIES_IVYSAUR"),
				},
			)),
		},
	}

	v, ok := rec.At(FieldPath{{Name: "baseHP"}})
	require.True(t, ok)
	assert.Equal(t, int64(45), v.Int)

	v, ok = rec.At(FieldPath{{Name: "abilities", Index: 1, HasIndex: true}})
	require.True(t, ok)
	assert.Equal(t, "ABILITY_NONE", v.Text)

	path, err := ParseFieldPath("evolutions[0].targetSpecies")
	require.NoError(t, err)
	v, ok = rec.At(path)
	require.True(t, ok)
	assert.Equal(t, "SPECIES_IVYSAUR", v.Text)

	_, ok = rec.At(FieldPath{{Name: "abilities", Index: 5, HasIndex: true}})
	assert.False(t, ok)

	_, ok = rec.At(FieldPath{{Name: "missing"}})
	assert.False(t, ok)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, IntValue(45).Equal(IntValue(45)))
	assert.False(t, IntValue(45).Equal(IntValue(46)))
	assert.False(t, IntValue(45).Equal(RefValue("45")))
	assert.True(t, ListValue(EnumValue("TYPE_GRASS")).Equal(ListValue(EnumValue("TYPE_GRASS"))))
	assert.False(t, ListValue(EnumValue("TYPE_GRASS")).Equal(ListValue()))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "45", IntValue(45).String())
	assert.Equal(t, "0x1F", HexValue(31).String())
	assert.Equal(t, "MOVE_TACKLE", RefValue("MOVE_TACKLE").String())
	assert.Equal(t, `"Bulbasaur"`, StringValue("Bulbasaur").String())
	assert.Equal(t, "[TYPE_GRASS, TYPE_POISON]",
		ListValue(EnumValue("TYPE_GRASS"), EnumValue("TYPE_POISON")).String())
}
