package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
)

// checkoutStore implements driven.CheckoutStore.
type checkoutStore struct {
	store *Store
}

var _ driven.CheckoutStore = (*checkoutStore)(nil)

// Save persists a checkout. Creates or updates based on ID.
func (s *checkoutStore) Save(ctx context.Context, checkout *domain.Checkout) error {
	if checkout == nil || checkout.ID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if checkout.CreatedAt.IsZero() {
		checkout.CreatedAt = now
	}
	checkout.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO checkouts (id, project_id, root, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			root = excluded.root,
			updated_at = excluded.updated_at
	`, checkout.ID, checkout.ProjectID, checkout.Root,
		checkout.CreatedAt.Format(time.RFC3339), checkout.UpdatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving checkout: %w", err)
	}
	return nil
}

// Get retrieves a checkout by ID.
func (s *checkoutStore) Get(ctx context.Context, id string) (*domain.Checkout, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project_id, root, created_at, updated_at
		FROM checkouts WHERE id = ?
	`, id)

	return scanCheckout(row)
}

// GetByRoot retrieves the checkout registered for a source tree path.
func (s *checkoutStore) GetByRoot(ctx context.Context, root string) (*domain.Checkout, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project_id, root, created_at, updated_at
		FROM checkouts WHERE root = ?
	`, root)

	return scanCheckout(row)
}

// List returns all registered checkouts.
func (s *checkoutStore) List(ctx context.Context) ([]domain.Checkout, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project_id, root, created_at, updated_at
		FROM checkouts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying checkouts: %w", err)
	}
	defer rows.Close()

	var checkouts []domain.Checkout //nolint:prealloc // size unknown from query
	for rows.Next() {
		checkout, err := scanCheckoutRows(rows)
		if err != nil {
			return nil, err
		}
		checkouts = append(checkouts, *checkout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checkouts: %w", err)
	}

	return checkouts, nil
}

// Delete removes a checkout and its build history.
func (s *checkoutStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM checkouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checkout: %w", err)
	}
	return nil
}

// RecordBuild logs one build invocation against a checkout.
func (s *checkoutStore) RecordBuild(ctx context.Context, record *domain.BuildRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	diagnosticsJSON, err := json.Marshal(record.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshalling diagnostics: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO builds (id, checkout_id, success, started_at, finished_at, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.CheckoutID, boolToInt(record.Success),
		record.StartedAt.Format(time.RFC3339),
		record.FinishedAt.Format(time.RFC3339),
		string(diagnosticsJSON))

	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// BuildHistory returns recent builds for a checkout, most recent first.
func (s *checkoutStore) BuildHistory(
	ctx context.Context,
	checkoutID string,
	limit int,
) ([]domain.BuildRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, checkout_id, success, started_at, finished_at, diagnostics
		FROM builds
		WHERE checkout_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, checkoutID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying build history: %w", err)
	}
	defer rows.Close()

	var records []domain.BuildRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanBuildRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating build history: %w", err)
	}

	return records, nil
}

// ==================== Helper Functions ====================

// scanCheckout scans a single checkout row.
func scanCheckout(row *sql.Row) (*domain.Checkout, error) {
	var checkout domain.Checkout
	var createdAt, updatedAt string

	if err := row.Scan(&checkout.ID, &checkout.ProjectID, &checkout.Root,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning checkout: %w", err)
	}

	checkout.CreatedAt = parseTime(createdAt)
	checkout.UpdatedAt = parseTime(updatedAt)

	return &checkout, nil
}

// scanCheckoutRows scans a checkout from *sql.Rows.
func scanCheckoutRows(rows *sql.Rows) (*domain.Checkout, error) {
	var checkout domain.Checkout
	var createdAt, updatedAt string

	if err := rows.Scan(&checkout.ID, &checkout.ProjectID, &checkout.Root,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning checkout: %w", err)
	}

	checkout.CreatedAt = parseTime(createdAt)
	checkout.UpdatedAt = parseTime(updatedAt)

	return &checkout, nil
}

// scanBuildRecord scans a build record from *sql.Rows.
func scanBuildRecord(rows *sql.Rows) (*domain.BuildRecord, error) {
	var record domain.BuildRecord
	var success int
	var startedAt, finishedAt, diagnosticsJSON string

	if err := rows.Scan(&record.ID, &record.CheckoutID, &success,
		&startedAt, &finishedAt, &diagnosticsJSON); err != nil {
		return nil, fmt.Errorf("scanning build record: %w", err)
	}

	record.Success = success == 1
	record.StartedAt = parseTime(startedAt)
	record.FinishedAt = parseTime(finishedAt)

	if diagnosticsJSON != "" {
		if err := json.Unmarshal([]byte(diagnosticsJSON), &record.Diagnostics); err != nil {
			return nil, fmt.Errorf("unmarshaling diagnostics: %w", err)
		}
	}

	return &record, nil
}

// parseTime parses an RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
