package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DefaultsOnly(t *testing.T) {
	t.Parallel()

	resolved, err := Resolve(ResolveOptions{GlobalConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)
	assert.Empty(t, resolved.Config.Rules)
	assert.Equal(t, ".", resolved.Cwd)
	assert.Equal(t, SourceDefault, resolved.Sources["rules"])
}

func TestResolve_GlobalFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[projclean]\nrules = [\"target\", \"node_modules\"]\nexclude = [\".git\"]\ntime = \"+30\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	resolved, err := Resolve(ResolveOptions{GlobalConfigPath: path})
	require.NoError(t, err)
	require.Len(t, resolved.Config.Rules, 2)
	assert.Equal(t, "target", resolved.Config.Rules[0].ID())
	assert.True(t, resolved.Config.IsExcluded(".git"))
	require.NotNil(t, resolved.Config.Age)
	assert.Equal(t, SourceGlobal, resolved.Sources["rules"])
}

func TestResolve_EnvOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[projclean]\nrules = [\"target\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv(EnvRules, "node_modules,.gradle")

	resolved, err := Resolve(ResolveOptions{GlobalConfigPath: path})
	require.NoError(t, err)
	require.Len(t, resolved.Config.Rules, 2)
	assert.Equal(t, "node_modules", resolved.Config.Rules[0].ID())
	assert.Equal(t, SourceEnv, resolved.Sources["rules"])
}

func TestResolve_FlagsOverrideAll(t *testing.T) {
	t.Setenv(EnvRules, "node_modules")

	resolved, err := Resolve(ResolveOptions{
		GlobalConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		CLIFlags: map[string]any{
			"rules": []string{"target"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resolved.Config.Rules, 1)
	assert.Equal(t, "target", resolved.Config.Rules[0].ID())
	assert.Equal(t, SourceFlag, resolved.Sources["rules"])
}

func TestResolve_ProjcleanIgnoreComposesWithExcludeFlag(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".projcleanignore"), []byte("vendor/\n"), 0o644))

	resolved, err := Resolve(ResolveOptions{
		GlobalConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		CLIFlags: map[string]any{
			"cwd":     root,
			"exclude": []string{".git"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resolved.Config.IsExcluded(".git"), "explicit --exclude name must still be honored")
	assert.True(t, resolved.Config.IsExcluded("vendor"), ".projcleanignore pattern must be composed in")
	assert.False(t, resolved.Config.IsExcluded("src"))
}

func TestResolve_NoProjcleanIgnoreFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	resolved, err := Resolve(ResolveOptions{
		GlobalConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		CLIFlags: map[string]any{
			"cwd":     root,
			"exclude": []string{".git"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resolved.Config.IsExcluded(".git"))
	assert.False(t, resolved.Config.IsExcluded("vendor"))
}

func TestResolve_MalformedGlobalFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid [[[ toml"), 0o644))

	_, err := Resolve(ResolveOptions{GlobalConfigPath: path})
	require.Error(t, err)
	var cfgErr *InvalidConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
