package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ParsesAllEntries(t *testing.T) {
	t.Parallel()

	entries := Catalog()
	require.NotEmpty(t, entries)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.NotEmpty(t, e.Label)
		require.NotNil(t, e.Rule)
		seen[e.Label] = true
	}
	assert.True(t, seen["Rust (Cargo)"])
	assert.True(t, seen["Node.js"])
}

func TestCatalog_RustEntryMatchesTarget(t *testing.T) {
	t.Parallel()

	for _, e := range Catalog() {
		if e.Label != "Rust (Cargo)" {
			continue
		}
		paths, ok := e.Rule.TriggerPurges("target")
		require.True(t, ok)
		assert.Equal(t, []string{"target"}, paths)
		return
	}
	t.Fatal("Rust (Cargo) entry not found")
}
