package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
	"github.com/porysuite/porybridge/internal/ctext"
	"github.com/porysuite/porybridge/internal/logger"
)

// Ensure EditManager implements the interfaces.
var (
	_ driving.EditService = (*EditManager)(nil)
	_ driving.BuildRunner = (*EditManager)(nil)
)

// EditManager owns the edit transaction of every checkout. Edits
// accumulate in memory and only touch disk at commit; a failed build
// restores the previous file contents and keeps the edits pending.
//
// Mutual exclusion keys on the checkout root: independent checkouts are
// edited concurrently, one open transaction per tree.
type EditManager struct {
	store    driven.CheckoutStore
	registry *PluginRegistry
	builder  driven.BuildService

	mu  sync.Mutex
	txs map[string]*transaction
}

type transaction struct {
	id        string
	state     domain.TxState
	startedAt time.Time
	edits     []domain.PendingEdit
}

// NewEditManager creates an edit manager. builder may be nil, in which
// case commits skip verification.
func NewEditManager(store driven.CheckoutStore, registry *PluginRegistry, builder driven.BuildService) *EditManager {
	return &EditManager{
		store:    store,
		registry: registry,
		builder:  builder,
		txs:      make(map[string]*transaction),
	}
}

// SetField stages one field edit. The raw value is parsed against the
// field's schema kind and validated before it is accumulated; a rejected
// edit leaves the transaction exactly as it was.
func (m *EditManager) SetField(ctx context.Context, ref, table, key, path, raw string) error {
	checkout, err := resolveCheckout(ctx, m.store, ref)
	if err != nil {
		return err
	}

	schema, err := m.registry.Schema(checkout.ProjectID, table)
	if err != nil {
		return err
	}
	fieldPath, err := domain.ParseFieldPath(path)
	if err != nil {
		return err
	}
	def, err := schema.FieldAt(fieldPath)
	if err != nil {
		return err
	}

	value, err := parseRawValue(def, raw)
	if err != nil {
		return err
	}
	if err := def.Validate(value); err != nil {
		return err
	}

	// Parse the live source so unknown records and fields hidden inside
	// conditional blocks are rejected now, not at commit.
	loaded, err := loadTable(checkout.Root, schema)
	if err != nil {
		return err
	}
	if _, ok := loaded.Data.Record(key); !ok {
		return fmt.Errorf("%w: %q in table %q", domain.ErrUnknownRecord, key, table)
	}
	if _, err := ctext.ResolveValueNode(loaded.Parsed, schema, key, fieldPath); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.txs[checkout.Root]
	if tx == nil {
		tx = &transaction{id: uuid.NewString(), state: domain.TxEditing, startedAt: time.Now()}
		m.txs[checkout.Root] = tx
		logger.Debug("Opened transaction %s for %s", tx.id, checkout.Root)
	}
	if tx.state == domain.TxCommitting {
		return fmt.Errorf("%w: commit in flight for %s", domain.ErrTransactionInProgress, checkout.Root)
	}

	edit := domain.PendingEdit{Table: table, Key: key, Path: fieldPath, Value: value}
	for i := range tx.edits {
		if tx.edits[i].Table == table && tx.edits[i].Key == key && tx.edits[i].Path.String() == fieldPath.String() {
			tx.edits[i] = edit
			return nil
		}
	}
	tx.edits = append(tx.edits, edit)
	return nil
}

// Status returns the checkout's transaction status.
func (m *EditManager) Status(ctx context.Context, ref string) (*driving.TxStatus, error) {
	checkout, err := resolveCheckout(ctx, m.store, ref)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.txs[checkout.Root]
	if tx == nil {
		return &driving.TxStatus{State: domain.TxClean}, nil
	}
	status := &driving.TxStatus{
		ID:        tx.id,
		State:     tx.state,
		StartedAt: tx.startedAt,
		Edits:     make([]domain.PendingEdit, len(tx.edits)),
	}
	copy(status.Edits, tx.edits)
	return status, nil
}

// Rollback discards all pending edits.
func (m *EditManager) Rollback(ctx context.Context, ref string) error {
	checkout, err := resolveCheckout(ctx, m.store, ref)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.txs[checkout.Root]
	if tx == nil {
		return fmt.Errorf("%w: checkout %s", domain.ErrNoTransaction, checkout.Root)
	}
	if tx.state == domain.TxCommitting {
		return fmt.Errorf("%w: commit in flight for %s", domain.ErrTransactionInProgress, checkout.Root)
	}
	delete(m.txs, checkout.Root)
	logger.Info("Rolled back transaction %s (%d edits)", tx.id, len(tx.edits))
	return nil
}

// Commit writes all pending edits, verifies the result with the build
// service, and returns to the clean state. A failed build restores the
// previous file contents, keeps the edits pending, and returns
// domain.ErrBuildFailed alongside the report carrying the diagnostics.
func (m *EditManager) Commit(ctx context.Context, ref string, opts driving.CommitOptions) (*driving.CommitReport, error) {
	checkout, err := resolveCheckout(ctx, m.store, ref)
	if err != nil {
		return nil, err
	}

	edits, txID, err := m.beginCommit(checkout.Root)
	if err != nil {
		return nil, err
	}

	report, err := m.runCommit(ctx, checkout, txID, edits, opts)
	m.endCommit(checkout.Root, err == nil)
	return report, err
}

// beginCommit moves the checkout's transaction to the committing state
// and snapshots its edits.
func (m *EditManager) beginCommit(root string) ([]domain.PendingEdit, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.txs[root]
	if tx == nil || len(tx.edits) == 0 {
		return nil, "", fmt.Errorf("%w: checkout %s", domain.ErrNoTransaction, root)
	}
	if tx.state == domain.TxCommitting {
		return nil, "", fmt.Errorf("%w: commit in flight for %s", domain.ErrTransactionInProgress, root)
	}
	tx.state = domain.TxCommitting

	edits := make([]domain.PendingEdit, len(tx.edits))
	copy(edits, tx.edits)
	return edits, tx.id, nil
}

// endCommit closes the transaction on success or reopens it for further
// edits on failure.
func (m *EditManager) endCommit(root string, committed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.txs[root]
	if tx == nil {
		return
	}
	if committed {
		delete(m.txs, root)
		return
	}
	tx.state = domain.TxEditing
}

type fileChange struct {
	path string // absolute
	rel  string
	old  []byte
	new  []byte
}

func (m *EditManager) runCommit(
	ctx context.Context,
	checkout *domain.Checkout,
	txID string,
	edits []domain.PendingEdit,
	opts driving.CommitOptions,
) (*driving.CommitReport, error) {
	changes, err := m.renderChanges(checkout, edits)
	if err != nil {
		return nil, err
	}

	if err := writeWithBackups(changes); err != nil {
		restoreBackups(changes)
		return nil, err
	}

	report := &driving.CommitReport{TxID: txID}
	for _, ch := range changes {
		report.Files = append(report.Files, ch.rel)
	}

	if !opts.SkipBuild && m.builder != nil && m.builder.Available(ctx) {
		result, err := m.runBuild(ctx, checkout)
		if err != nil {
			restoreBackups(changes)
			return nil, fmt.Errorf("build service: %w", err)
		}
		report.Build = result
		if !result.Success {
			restoreBackups(changes)
			logger.Warn("Build failed, restored %d files; edits retained", len(changes))
			return report, fmt.Errorf("%w: %d diagnostics", domain.ErrBuildFailed, len(result.Diagnostics))
		}
	} else if !opts.SkipBuild {
		report.Unverified = true
		if m.builder != nil {
			logger.Warn("Build service %s unavailable, committing unverified", m.builder.Name())
		}
	}

	removeBackups(changes)

	checkout.UpdatedAt = time.Now()
	if err := m.store.Save(ctx, checkout); err != nil {
		logger.Warn("Updating checkout after commit: %v", err)
	}
	logger.Info("Committed transaction %s: %d edits across %d files", txID, len(edits), len(changes))
	return report, nil
}

// renderChanges groups edits by table and renders each touched file's new
// content. Values are re-validated inside the writer, so edits staged
// before a schema reload still cannot commit out-of-domain values.
//
// Several tables may resolve to one source file (schema overrides can
// point multiple locators at the same header), so splices are collected
// per resolved path and applied in a single pass per file; writing each
// table's full-file rendering separately would drop all but the last.
func (m *EditManager) renderChanges(checkout *domain.Checkout, edits []domain.PendingEdit) ([]*fileChange, error) {
	byTable := make(map[string][]domain.PendingEdit)
	var order []string
	for _, e := range edits {
		if _, ok := byTable[e.Table]; !ok {
			order = append(order, e.Table)
		}
		byTable[e.Table] = append(byTable[e.Table], e)
	}

	var changes []*fileChange
	byPath := make(map[string]*fileChange)
	splices := make(map[string][]ctext.Splice)
	for _, table := range order {
		schema, err := m.registry.Schema(checkout.ProjectID, table)
		if err != nil {
			return nil, err
		}
		loaded, err := loadTable(checkout.Root, schema)
		if err != nil {
			return nil, err
		}
		sp, err := ctext.RenderEdits(loaded.Parsed, schema, byTable[table])
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", table, err)
		}

		path := filepath.Join(checkout.Root, filepath.FromSlash(loaded.Data.File))
		ch, ok := byPath[path]
		if !ok {
			ch = &fileChange{path: path, rel: loaded.Data.File, old: loaded.Parsed.Src}
			byPath[path] = ch
			changes = append(changes, ch)
		} else if !bytes.Equal(ch.old, loaded.Parsed.Src) {
			return nil, fmt.Errorf("%w: %s changed while rendering", domain.ErrEditConflict, loaded.Data.File)
		}
		splices[path] = append(splices[path], sp...)
	}

	for _, ch := range changes {
		revised, err := ctext.Apply(ch.old, splices[ch.path])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ch.rel, err)
		}
		ch.new = revised
	}
	return changes, nil
}

func (m *EditManager) runBuild(ctx context.Context, checkout *domain.Checkout) (*domain.BuildResult, error) {
	started := time.Now()
	result, err := m.builder.Build(ctx, checkout.Root)
	if err != nil {
		return nil, err
	}

	record := &domain.BuildRecord{
		ID:          uuid.NewString(),
		CheckoutID:  checkout.ID,
		Success:     result.Success,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Diagnostics: result.Diagnostics,
	}
	if err := m.store.RecordBuild(ctx, record); err != nil {
		logger.Warn("Recording build history: %v", err)
	}
	return &result, nil
}

// Run builds the checkout without touching any pending edits and records
// the outcome in the build history.
func (m *EditManager) Run(ctx context.Context, ref string) (*domain.BuildResult, error) {
	checkout, err := resolveCheckout(ctx, m.store, ref)
	if err != nil {
		return nil, err
	}
	if m.builder == nil {
		return nil, errors.New("no build service configured")
	}
	if !m.builder.Available(ctx) {
		return nil, fmt.Errorf("build service %s unavailable", m.builder.Name())
	}
	return m.runBuild(ctx, checkout)
}

// writeWithBackups writes each change with a .bak copy of the original
// alongside it, so a failed build or a crash mid-commit is recoverable.
func writeWithBackups(changes []*fileChange) error {
	for _, ch := range changes {
		mode := os.FileMode(0644)
		if info, err := os.Stat(ch.path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(ch.path+".bak", ch.old, mode); err != nil {
			return fmt.Errorf("writing backup for %s: %w", ch.rel, err)
		}
		if err := os.WriteFile(ch.path, ch.new, mode); err != nil {
			return fmt.Errorf("writing %s: %w", ch.rel, err)
		}
	}
	return nil
}

func restoreBackups(changes []*fileChange) {
	for _, ch := range changes {
		bak := ch.path + ".bak"
		if _, err := os.Stat(bak); err != nil {
			continue
		}
		if err := os.Rename(bak, ch.path); err != nil {
			logger.Warn("Restoring %s: %v", ch.rel, err)
		}
	}
}

func removeBackups(changes []*fileChange) {
	for _, ch := range changes {
		if err := os.Remove(ch.path + ".bak"); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Removing backup for %s: %v", ch.rel, err)
		}
	}
}

// parseRawValue interprets CLI input against a field definition.
func parseRawValue(def *domain.FieldDef, raw string) (domain.Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Value{}, fmt.Errorf("%w: empty value", domain.ErrInvalidInput)
	}

	switch def.Kind {
	case domain.ValueInteger:
		if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
			if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
				return domain.HexValue(n), nil
			}
			return domain.IntValue(n), nil
		}
		if isIdentifier(raw) {
			return domain.RefValue(raw), nil
		}
		return domain.Value{}, fmt.Errorf("%w: %q is not an integer or symbol", domain.ErrInvalidInput, raw)

	case domain.ValueEnum:
		return domain.EnumValue(raw), nil

	case domain.ValueString:
		if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
			raw = raw[1 : len(raw)-1]
		}
		return domain.StringValue(raw), nil

	case domain.ValueRef:
		return domain.RefValue(raw), nil

	case domain.ValueList:
		elemDef := def.Elem
		if elemDef == nil {
			elemDef = &domain.FieldDef{Kind: domain.ValueRef}
		}
		parts := strings.Split(raw, ",")
		elems := make([]domain.Value, 0, len(parts))
		for _, p := range parts {
			v, err := parseRawValue(elemDef, p)
			if err != nil {
				return domain.Value{}, err
			}
			elems = append(elems, v)
		}
		return domain.ListValue(elems...), nil

	default:
		return domain.Value{}, fmt.Errorf("%w: field %q is a nested record, set its sub-fields individually",
			domain.ErrInvalidInput, def.Name)
	}
}

func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
