package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
)

// Ensure TableService implements the interface.
var _ driving.TableService = (*TableService)(nil)

// TableService reads table data out of checkouts.
type TableService struct {
	store    driven.CheckoutStore
	registry *PluginRegistry
}

// NewTableService creates a table service.
func NewTableService(store driven.CheckoutStore, registry *PluginRegistry) *TableService {
	return &TableService{store: store, registry: registry}
}

// Tables loads every schema-declared table of the checkout's project and
// reports per-table status.
func (s *TableService) Tables(ctx context.Context, ref string) ([]driving.TableStatus, error) {
	checkout, err := resolveCheckout(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	schemas, err := s.registry.Schemas(checkout.ProjectID)
	if err != nil {
		return nil, err
	}

	results := loadAll(ctx, checkout.Root, schemas)
	statuses := make([]driving.TableStatus, 0, len(results))
	for _, res := range results {
		status := driving.TableStatus{Name: res.schema.Name}
		switch {
		case res.err == nil:
			status.Supported = true
			status.File = res.table.Data.File
			status.Records = len(res.table.Data.Keys)
		case errors.Is(res.err, domain.ErrNotFound):
			// Absent declaration means this project variant does not carry
			// the table. Not an error.
		default:
			status.Err = res.err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Keys returns the record keys of one table in source order.
func (s *TableService) Keys(ctx context.Context, ref, table string) ([]string, error) {
	loaded, err := s.load(ctx, ref, table)
	if err != nil {
		return nil, err
	}
	return loaded.Data.Keys, nil
}

// Record returns one extracted record.
func (s *TableService) Record(ctx context.Context, ref, table, key string) (*domain.Record, error) {
	loaded, err := s.load(ctx, ref, table)
	if err != nil {
		return nil, err
	}
	rec, ok := loaded.Data.Record(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q in table %q", domain.ErrUnknownRecord, key, table)
	}
	return rec, nil
}

// Field resolves a field path against one record.
func (s *TableService) Field(ctx context.Context, ref, table, key, path string) (domain.Value, error) {
	loaded, err := s.load(ctx, ref, table)
	if err != nil {
		return domain.Value{}, err
	}
	rec, ok := loaded.Data.Record(key)
	if !ok {
		return domain.Value{}, fmt.Errorf("%w: %q in table %q", domain.ErrUnknownRecord, key, table)
	}

	fieldPath, err := domain.ParseFieldPath(path)
	if err != nil {
		return domain.Value{}, err
	}
	if _, err := loaded.Schema.FieldAt(fieldPath); err != nil {
		return domain.Value{}, err
	}
	v, ok := rec.At(fieldPath)
	if !ok {
		return domain.Value{}, fmt.Errorf("%w: %q in record %q", domain.ErrUnknownField, path, key)
	}
	return v, nil
}

func (s *TableService) load(ctx context.Context, ref, table string) (*LoadedTable, error) {
	checkout, err := resolveCheckout(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	schema, err := s.registry.Schema(checkout.ProjectID, table)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return loadTable(checkout.Root, schema)
}
