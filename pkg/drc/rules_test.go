package drc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clearance_mm: 0.15\n"), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 0.15, rules.ClearanceMM)
}

func TestLoadRulesDefaults(t *testing.T) {
	dir := t.TempDir()

	// An empty file and a nonsense value both fall back to the default.
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	rules, err := LoadRules(empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules().ClearanceMM, rules.ClearanceMM)

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("clearance_mm: -1\n"), 0o644))
	rules, err = LoadRules(negative)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules().ClearanceMM, rules.ClearanceMM)
}

func TestLoadRulesMissingFile(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultRules(), rules)
}
