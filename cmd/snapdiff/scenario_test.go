package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "inbox.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "inbox", sc.Name)
	require.Len(t, sc.Steps, 4)
	assert.Equal(t, "initial load", sc.Steps[0].Name)
	assert.Equal(t, []string{"invoice"}, sc.Steps[2].ReloadItems)
}

func TestLoadScenarioDefaultsStepNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	data := "name: bare\nsteps:\n  - sections:\n      - id: a\n        items: [x]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "step 1", sc.Steps[0].Name)
}

func TestLoadScenarioRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: empty\n"), 0o644))

	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestStepSnapshot(t *testing.T) {
	step := Step{
		Sections: []SectionSpec{
			{ID: "pinned", Items: []string{"welcome", "setup"}},
			{ID: "inbox", Items: []string{"invoice"}},
		},
		ReloadItems:    []string{"invoice"},
		ReloadSections: []string{"pinned"},
	}

	snap := step.Snapshot()
	require.Equal(t, []string{"pinned", "inbox"}, snap.SectionIDs())
	assert.Equal(t, []string{"invoice"}, snap.ItemsInSection("inbox"))

	sections := snap.Sections()
	assert.True(t, sections[0].Reloaded)
	assert.True(t, sections[1].Items[0].Reloaded)
	assert.False(t, sections[0].Items[0].Reloaded)
}
