package file

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// LoadFS parses every .toml schema in fsys, sorted by file name. Unlike
// disk overrides, a broken schema here is fatal: embedded schema sets
// ship with the binary and must always parse.
func LoadFS(fsys fs.FS) ([]domain.TableSchema, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading schema fs: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	schemas := make([]domain.TableSchema, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		schema, err := ParseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		schemas = append(schemas, *schema)
	}
	return schemas, nil
}
