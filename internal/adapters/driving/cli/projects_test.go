package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
)

// mockProjectRegistry implements driving.ProjectRegistry for testing.
type mockProjectRegistry struct{}

func (m *mockProjectRegistry) List() []driving.ProjectInfo {
	return []driving.ProjectInfo{
		{ID: "pokeemerald", Name: "pokeemerald (vanilla)", Tables: []string{"base_stats", "items"}},
	}
}

func (m *mockProjectRegistry) Get(id string) (*driving.ProjectInfo, error) {
	if id != "pokeemerald" {
		return nil, domain.ErrUnknownProject
	}
	return &driving.ProjectInfo{ID: id, Name: "pokeemerald (vanilla)"}, nil
}

func (m *mockProjectRegistry) Detect(_ string) (*driving.ProjectInfo, error) {
	return &driving.ProjectInfo{ID: "pokeemerald", Name: "pokeemerald (vanilla)"}, nil
}

func setupProjectsTest() func() {
	oldRegistry := projectRegistry
	projectRegistry = &mockProjectRegistry{}
	return func() {
		projectRegistry = oldRegistry
	}
}

func TestProjectsCmd_Executes(t *testing.T) {
	cleanup := setupProjectsTest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"projects"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "pokeemerald")
	assert.Contains(t, buf.String(), "base_stats, items")
}

func TestProjectsDetectCmd_Executes(t *testing.T) {
	cleanup := setupProjectsTest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"projects", "detect", "/src/emerald"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "pokeemerald")
}

func TestProjectsCmd_RegistryNotConfigured(t *testing.T) {
	oldRegistry := projectRegistry
	projectRegistry = nil
	defer func() {
		projectRegistry = oldRegistry
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"projects"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project registry not configured")
}
