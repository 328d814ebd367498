package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilderDefaults(t *testing.T) {
	b := NewBuilder("", 0)
	assert.Equal(t, DefaultImage, b.image)
	assert.Equal(t, "docker", b.Name())

	custom := NewBuilder("local/agbcc:dev", 4)
	assert.Equal(t, "local/agbcc:dev", custom.image)
	assert.Equal(t, 4, custom.jobs)
}

func TestParseDiagnostics(t *testing.T) {
	output := `arm-none-eabi-gcc -c src/data/pokemon/species_info.h
src/data/pokemon/species_info.h:42:5: error: expected '}' before ';' token
src/data/items.c:1203: error: 'ITEM_ORAN_BERRY' undeclared here
src/data/items.c:1203:10: warning: unused variable 'x'
make: *** [Makefile:312: build/emerald/src/data/items.o] Error 1
`
	diags := parseDiagnostics(output)
	require.Len(t, diags, 2)

	assert.Equal(t, "src/data/pokemon/species_info.h", diags[0].File)
	assert.Equal(t, 42, diags[0].Line)
	assert.Equal(t, "expected '}' before ';' token", diags[0].Message)

	// Old-toolchain form without a column still parses.
	assert.Equal(t, "src/data/items.c", diags[1].File)
	assert.Equal(t, 1203, diags[1].Line)
}

func TestParseDiagnosticsFatalError(t *testing.T) {
	output := "src/pokemon.c:10:1: fatal error: species_info.h: No such file or directory\n"
	diags := parseDiagnostics(output)
	require.Len(t, diags, 1)
	assert.Equal(t, "species_info.h: No such file or directory", diags[0].Message)
}

func TestParseDiagnosticsMakeFallback(t *testing.T) {
	output := `tools/preproc/preproc: charmap error on line 4
make: *** [Makefile:120: data/text.o] Error 2
`
	diags := parseDiagnostics(output)
	require.Len(t, diags, 1)
	assert.Empty(t, diags[0].File)
	assert.Contains(t, diags[0].Message, "make: ***")
}

func TestParseDiagnosticsCleanOutput(t *testing.T) {
	assert.Empty(t, parseDiagnostics("touch emerald.gba\ndone.\n"))
}
