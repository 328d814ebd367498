package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/ctext"
	"github.com/porysuite/porybridge/internal/extract"
	"github.com/porysuite/porybridge/internal/logger"
)

// LoadedTable is one table freshly parsed and extracted from a checkout.
type LoadedTable struct {
	Schema domain.TableSchema
	Parsed *ctext.ParsedLiteral
	Data   *extract.TableData
}

// loadTable locates, parses and extracts one table from the source tree.
// Every call re-reads the file: external edits between calls are picked
// up, never stale-cached.
func loadTable(root string, schema *domain.TableSchema) (*LoadedTable, error) {
	located, err := ctext.LocateInRoot(root, schema.Locator)
	if err != nil {
		return nil, fmt.Errorf("locating table %q: %w", schema.Name, err)
	}

	parsed, err := ctext.Parse(located.Src, located.Path, schema.Locator.Symbol, located.Span)
	if err != nil {
		return nil, fmt.Errorf("parsing table %q: %w", schema.Name, err)
	}

	data, err := extract.Extract(schema, parsed)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded table %s from %s: %d records", schema.Name, located.Path, len(data.Keys))
	return &LoadedTable{Schema: *schema, Parsed: parsed, Data: data}, nil
}

// tableResult pairs one schema with its load outcome.
type tableResult struct {
	schema domain.TableSchema
	table  *LoadedTable
	err    error
}

// loadAll loads every schema's table concurrently. Failures are scoped to
// their table: one malformed or absent declaration never hides the
// others. Results come back in schema order.
func loadAll(ctx context.Context, root string, schemas []domain.TableSchema) []tableResult {
	results := make([]tableResult, len(schemas))

	var wg sync.WaitGroup
	for i := range schemas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i] = tableResult{schema: schemas[i], err: err}
				return
			}
			table, err := loadTable(root, &schemas[i])
			results[i] = tableResult{schema: schemas[i], table: table, err: err}
		}(i)
	}
	wg.Wait()

	for i := range results {
		if results[i].err != nil && !errors.Is(results[i].err, domain.ErrNotFound) {
			logger.Warn("Table %s failed to load: %v", results[i].schema.Name, results[i].err)
		}
	}
	return results
}
