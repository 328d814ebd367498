package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
)

// mockTableService implements driving.TableService for testing.
type mockTableService struct{}

func (m *mockTableService) Tables(_ context.Context, _ string) ([]driving.TableStatus, error) {
	return []driving.TableStatus{
		{Name: "species_info", File: "src/data/pokemon/species_info.h", Records: 3, Supported: true},
		{Name: "pokedex_entries", Supported: false},
	}, nil
}

func (m *mockTableService) Keys(_ context.Context, _, _ string) ([]string, error) {
	return []string{"SPECIES_BULBASAUR", "SPECIES_IVYSAUR"}, nil
}

func (m *mockTableService) Record(_ context.Context, _, _, key string) (*domain.Record, error) {
	return &domain.Record{
		Key:        key,
		Fields:     map[string]domain.Value{"baseHP": domain.IntValue(45)},
		FieldOrder: []string{"baseHP"},
	}, nil
}

func (m *mockTableService) Field(_ context.Context, _, _, _, _ string) (domain.Value, error) {
	return domain.IntValue(45), nil
}

func setupTableTest() func() {
	oldService := tableService
	tableService = &mockTableService{}
	return func() {
		tableService = oldService
	}
}

func TestTablesCmd_Executes(t *testing.T) {
	cleanup := setupTableTest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tables", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "species_info")
	assert.Contains(t, buf.String(), "3 records")
	assert.Contains(t, buf.String(), "not present in this tree")
}

func TestRecordsCmd_Executes(t *testing.T) {
	cleanup := setupTableTest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"records", "co-1", "species_info"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "SPECIES_BULBASAUR")
	assert.Contains(t, buf.String(), "SPECIES_IVYSAUR")
}

func TestGetCmd_Record(t *testing.T) {
	cleanup := setupTableTest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"get", "co-1", "species_info", "SPECIES_BULBASAUR"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[SPECIES_BULBASAUR]")
	assert.Contains(t, buf.String(), "baseHP")
}

func TestGetCmd_Field(t *testing.T) {
	cleanup := setupTableTest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"get", "co-1", "species_info", "SPECIES_BULBASAUR", "baseHP"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "45")
}

func TestTablesCmd_ServiceNotConfigured(t *testing.T) {
	oldService := tableService
	tableService = nil
	defer func() {
		tableService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"tables", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "table service not configured")
}
