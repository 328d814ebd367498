package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
)

// mockEditService implements driving.EditService for testing.
type mockEditService struct {
	setErr     error
	commitErr  error
	unverified bool
	status     driving.TxStatus
	lastRaw    string
}

func (m *mockEditService) SetField(_ context.Context, _, _, _, _, raw string) error {
	m.lastRaw = raw
	return m.setErr
}

func (m *mockEditService) Status(_ context.Context, _ string) (*driving.TxStatus, error) {
	status := m.status
	return &status, nil
}

func (m *mockEditService) Rollback(_ context.Context, _ string) error {
	return nil
}

func (m *mockEditService) Commit(_ context.Context, _ string, opts driving.CommitOptions) (*driving.CommitReport, error) {
	if m.commitErr != nil {
		return &driving.CommitReport{
			TxID:  "tx-1",
			Build: &domain.BuildResult{Success: false, Diagnostics: []domain.Diagnostic{{File: "src/data/items.c", Line: 12, Message: "boom"}}},
		}, m.commitErr
	}
	report := &driving.CommitReport{
		TxID:       "tx-1",
		Files:      []string{"src/data/pokemon/species_info.h"},
		Unverified: m.unverified,
	}
	if !opts.SkipBuild && !m.unverified {
		report.Build = &domain.BuildResult{Success: true}
	}
	return report, nil
}

func setupEditTest(mock *mockEditService) func() {
	oldService := editService
	editService = mock
	return func() {
		editService = oldService
	}
}

func TestSetCmd_StagesEdit(t *testing.T) {
	mock := &mockEditService{}
	cleanup := setupEditTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"set", "co-1", "species_info", "SPECIES_BULBASAUR", "baseHP", "50"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "50", mock.lastRaw)
	assert.Contains(t, buf.String(), "Staged SPECIES_BULBASAUR.baseHP = 50")
}

func TestSetCmd_RejectsDomainViolation(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{setErr: domain.ErrDomainViolation})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"set", "co-1", "species_info", "SPECIES_BULBASAUR", "baseHP", "999"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrDomainViolation)
}

func TestStatusCmd_Clean(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "clean")
}

func TestStatusCmd_PendingEdits(t *testing.T) {
	mock := &mockEditService{status: driving.TxStatus{
		ID:    "tx-9",
		State: domain.TxEditing,
		Edits: []domain.PendingEdit{{
			Table: "species_info",
			Key:   "SPECIES_BULBASAUR",
			Path:  domain.FieldPath{{Name: "baseHP"}},
			Value: domain.IntValue(50),
		}},
	}}
	cleanup := setupEditTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "tx-9")
	assert.Contains(t, buf.String(), "SPECIES_BULBASAUR")
}

func TestRollbackCmd_Executes(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"rollback", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "discarded")
}

func TestCommitCmd_Success(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"commit", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "rewrote src/data/pokemon/species_info.h")
	assert.Contains(t, buf.String(), "build ok")
}

func TestCommitCmd_SkipBuild(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"commit", "co-1", "--skip-build"})
	defer func() {
		rootCmd.SetArgs(nil)
		commitSkipBuild = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "build skipped")
}

func TestCommitCmd_UnverifiedNotice(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{unverified: true})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"commit", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "UNVERIFIED")
	assert.NotContains(t, buf.String(), "build ok")
}

func TestCommitCmd_BuildFailurePrintsDiagnostics(t *testing.T) {
	cleanup := setupEditTest(&mockEditService{commitErr: domain.ErrBuildFailed})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"commit", "co-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Contains(t, buf.String(), "edits kept pending")
	assert.Contains(t, buf.String(), "src/data/items.c:12: boom")
}
