package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

const sample = `
projects:
  - name: Campus Meals
    description: Meal plans for students
    status: active
    tags: [food, b2c]
    notes:
      - Interviewed 12 students
    steps:
      - key: jobs_to_be_done
        status: completed
      - key: value_proposition
        status: in_progress
  - name: Dog Walkers
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Projects, 2)

	p := f.Projects[0]
	assert.Equal(t, "Campus Meals", p.Name)
	assert.Equal(t, analysis.StatusActive, p.Status)
	assert.Equal(t, []string{"food", "b2c"}, p.Tags)
	assert.Equal(t, []Step{
		{Key: "jobs_to_be_done", Status: analysis.StepCompleted},
		{Key: "value_proposition", Status: analysis.StepInProgress},
	}, p.Steps)
	assert.Equal(t, analysis.Status(""), f.Projects[1].Status)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no projects", "projects: []\n"},
		{"missing name", "projects:\n  - description: x\n"},
		{"bad status", "projects:\n  - name: x\n    status: shipped\n"},
		{"bad step status", "projects:\n  - name: x\n    steps:\n      - key: a\n        status: done\n"},
		{"missing step key", "projects:\n  - name: x\n    steps:\n      - status: completed\n"},
		{"unknown field", "projects:\n  - name: x\n    owner: sam\n"},
		{"not yaml", "projects: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	created, err := ImportFile(ctx, db, path)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, analysis.StatusDraft, created[1].Status)

	snap, err := db.GetProjectSnapshot(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Meal plans for students", snap.Description)
	assert.ElementsMatch(t, []string{"food", "b2c"}, snap.Tags)
	assert.Equal(t, []string{"Interviewed 12 students"}, snap.Notes)
	assert.Len(t, snap.Steps, 2)
}

func TestImportFile_Missing(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	_, err = ImportFile(context.Background(), db, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
