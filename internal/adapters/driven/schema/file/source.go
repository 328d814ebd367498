package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.SchemaSource = (*Source)(nil)

// Source serves schema overrides from TOML files on disk.
type Source struct {
	dir string
}

// NewSource creates a schema source over dir. If dir is empty, defaults
// to ~/.porybridge/schemas.
func NewSource(dir string) (*Source, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".porybridge", "schemas")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &Source{dir: dir}, nil
}

// Dir returns the directory being served.
func (s *Source) Dir() string {
	return s.dir
}

// Schemas returns the override schemas for a project ID. An absent
// project directory means no overrides.
func (s *Source) Schemas(projectID string) ([]domain.TableSchema, error) {
	dir := filepath.Join(s.dir, projectID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading schema directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var schemas []domain.TableSchema
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		schema, err := ParseSchema(data)
		if err != nil {
			// A broken override must not take the whole project down.
			logger.Warn("Skipping schema override %s/%s: %v", projectID, name, err)
			continue
		}
		schemas = append(schemas, *schema)
	}
	return schemas, nil
}
