// Package pokeemerald supports vanilla pret/pokeemerald checkouts. Its
// schema set covers the stable data tables of the original decomp: base
// stats, items, Pokédex entries and the starter choices.
package pokeemerald

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	schemafile "github.com/porysuite/porybridge/internal/adapters/driven/schema/file"
	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
)

//go:embed schemas/*.toml
var schemaFS embed.FS

// Plugin implements project detection and schemas for vanilla pokeemerald.
type Plugin struct{}

var _ driven.ProjectPlugin = (*Plugin)(nil)

// New creates the vanilla pokeemerald plugin.
func New() *Plugin {
	return &Plugin{}
}

// ID returns the project type identifier.
func (p *Plugin) ID() string {
	return "pokeemerald"
}

// Name returns the human-readable project name.
func (p *Plugin) Name() string {
	return "pokeemerald (vanilla)"
}

// Detect reports whether root is a vanilla pokeemerald checkout. The
// base_stats.h table only exists in vanilla; the expansion replaced it
// with species_info.h and added the include/config tree.
func (p *Plugin) Detect(root string) bool {
	if !fileExists(filepath.Join(root, "src", "data", "pokemon", "base_stats.h")) {
		return false
	}
	return !fileExists(filepath.Join(root, "include", "config", "pokemon.h"))
}

// Schemas returns the embedded table schemas.
func (p *Plugin) Schemas() ([]domain.TableSchema, error) {
	sub, err := fs.Sub(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("opening embedded schemas: %w", err)
	}
	return schemafile.LoadFS(sub)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
