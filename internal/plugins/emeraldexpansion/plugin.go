// Package emeraldexpansion supports rh-hideout/pokeemerald-expansion
// checkouts, where the vanilla base stats table was folded into the
// richer gSpeciesInfo table and feature toggles live under include/config.
package emeraldexpansion

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

// Plugin implements project detection and schemas for pokeemerald-expansion.
type Plugin struct{}

var _ driven.ProjectPlugin = (*Plugin)(nil)

// New creates the pokeemerald-expansion plugin.
func New() *Plugin {
	return &Plugin{}
}

// ID returns the project type identifier.
func (p *Plugin) ID() string {
	return "pokeemerald-expansion"
}

// Name returns the human-readable project name.
func (p *Plugin) Name() string {
	return "pokeemerald-expansion"
}

// Detect reports whether root is an expansion checkout. The expansion is
// the only variant carrying both the include/config toggle tree and the
// species_info table.
func (p *Plugin) Detect(root string) bool {
	return fileExists(filepath.Join(root, "include", "config", "pokemon.h")) &&
		fileExists(filepath.Join(root, "src", "data", "pokemon", "species_info.h"))
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
