package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porysuite/porybridge/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "porybridge-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestCheckout registers a checkout to satisfy foreign key constraints.
func createTestCheckout(t *testing.T, store *Store, id string) *domain.Checkout {
	t.Helper()
	checkout := &domain.Checkout{
		ID:        id,
		ProjectID: "pokeemerald",
		Root:      "/tmp/checkouts/" + id,
	}
	require.NoError(t, store.CheckoutStore().Save(context.Background(), checkout))
	return checkout
}

func TestNewStore_CreatesDatabaseFile(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
	assert.Equal(t, "bridge.db", filepath.Base(store.Path()))
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "porybridge-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrate again against the same file.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestCheckoutStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	saved := createTestCheckout(t, store, "co-1")

	got, err := checkouts.Get(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ProjectID, got.ProjectID)
	assert.Equal(t, saved.Root, got.Root)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCheckoutStore_GetByRoot(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	createTestCheckout(t, store, "co-1")

	got, err := checkouts.GetByRoot(ctx, "/tmp/checkouts/co-1")
	require.NoError(t, err)
	assert.Equal(t, "co-1", got.ID)

	_, err = checkouts.GetByRoot(ctx, "/nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckoutStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.CheckoutStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckoutStore_SaveUpdatesExisting(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	checkout := createTestCheckout(t, store, "co-1")

	checkout.ProjectID = "pokeemerald-expansion"
	require.NoError(t, checkouts.Save(ctx, checkout))

	got, err := checkouts.Get(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, "pokeemerald-expansion", got.ProjectID)

	list, err := checkouts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCheckoutStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestCheckout(t, store, "co-1")
	createTestCheckout(t, store, "co-2")

	list, err := store.CheckoutStore().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCheckoutStore_DeleteCascadesBuilds(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	createTestCheckout(t, store, "co-1")

	record := &domain.BuildRecord{
		ID:         uuid.NewString(),
		CheckoutID: "co-1",
		Success:    true,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	require.NoError(t, checkouts.RecordBuild(ctx, record))

	require.NoError(t, checkouts.Delete(ctx, "co-1"))

	_, err := checkouts.Get(ctx, "co-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := checkouts.BuildHistory(ctx, "co-1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCheckoutStore_BuildHistoryOrderAndLimit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	createTestCheckout(t, store, "co-1")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := &domain.BuildRecord{
			ID:         uuid.NewString(),
			CheckoutID: "co-1",
			Success:    i != 1,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		require.NoError(t, checkouts.RecordBuild(ctx, record))
	}

	history, err := checkouts.BuildHistory(ctx, "co-1", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].StartedAt.After(history[1].StartedAt))
	assert.True(t, history[0].Success)
}

func TestCheckoutStore_BuildDiagnosticsRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	createTestCheckout(t, store, "co-1")

	record := &domain.BuildRecord{
		ID:         uuid.NewString(),
		CheckoutID: "co-1",
		Success:    false,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		Diagnostics: []domain.Diagnostic{
			{File: "src/data/pokemon/species_info.h", Line: 42, Message: "expected '}' before ';'"},
		},
	}
	require.NoError(t, checkouts.RecordBuild(ctx, record))

	history, err := checkouts.BuildHistory(ctx, "co-1", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Diagnostics, 1)
	assert.Equal(t, 42, history[0].Diagnostics[0].Line)
	assert.Contains(t, history[0].Diagnostics[0].Message, "expected")
}

func TestCheckoutStore_RejectsInvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	checkouts := store.CheckoutStore()
	assert.ErrorIs(t, checkouts.Save(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, checkouts.Save(ctx, &domain.Checkout{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, checkouts.RecordBuild(ctx, nil), domain.ErrInvalidInput)
}
