package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
)

// ResolveOptions configures the multi-source configuration resolution.
type ResolveOptions struct {
	// GlobalConfigPath overrides the default ~/.config/projclean/config.toml.
	// Useful for testing.
	GlobalConfigPath string

	// CLIFlags holds explicit CLI flag overrides (highest precedence). Keys
	// are flat field names: "rules", "exclude", "time", "size", "cwd".
	CLIFlags map[string]any
}

// ResolvedConfig is the result of multi-source configuration resolution.
type ResolvedConfig struct {
	Config  *Config
	Cwd     string
	Sources SourceMap
}

// Resolve runs the 4-layer configuration resolution pipeline:
//  1. Built-in defaults (no rules, no excludes, no filters)
//  2. Global config (~/.config/projclean/config.toml)
//  3. Environment variables (PROJCLEAN_* prefix)
//  4. CLI flags (highest precedence)
//
// A missing global config file is silently ignored; a malformed one returns
// an InvalidConfigError.
func Resolve(opts ResolveOptions) (*ResolvedConfig, error) {
	k := koanf.New(".")
	sources := make(SourceMap)

	if err := loadLayer(k, map[string]any{
		"rules":   []string{},
		"exclude": []string{},
		"time":    "",
		"size":    "",
		"cwd":     ".",
	}, sources, SourceDefault); err != nil {
		return nil, err
	}

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			globalPath = filepath.Join(home, ".config", "projclean", "config.toml")
		}
	}
	if globalPath != "" {
		flat, err := loadGlobalFile(globalPath)
		if err != nil {
			return nil, err
		}
		if flat != nil {
			slog.Debug("loaded global config", "path", globalPath)
			if err := loadLayer(k, flat, sources, SourceGlobal); err != nil {
				return nil, err
			}
		}
	}

	if envMap := buildEnvMap(); len(envMap) > 0 {
		if err := loadLayer(k, envMap, sources, SourceEnv); err != nil {
			return nil, err
		}
	}

	if len(opts.CLIFlags) > 0 {
		if err := loadLayer(k, opts.CLIFlags, sources, SourceFlag); err != nil {
			return nil, err
		}
	}

	cfg, err := New(Options{
		RuleStrings:  k.Strings("rules"),
		ExcludeNames: k.Strings("exclude"),
		AgeFilter:    k.String("time"),
		SizeFilter:   k.String("size"),
	})
	if err != nil {
		return nil, err
	}

	cwd := k.String("cwd")
	projcleanIgnore, err := LoadProjcleanIgnore(cwd)
	if err != nil {
		return nil, err
	}
	if projcleanIgnore != nil {
		slog.Debug("loaded .projcleanignore", "root", cwd)
		cfg.Exclude = NewCompositeIgnorer(cfg.Exclude, projcleanIgnore)
	}

	return &ResolvedConfig{
		Config:  cfg,
		Cwd:     cwd,
		Sources: sources,
	}, nil
}

// loadGlobalFile reads a "[projclean]" table from a TOML config file into a
// flat map. A missing file returns (nil, nil); a parse error returns an
// InvalidConfigError.
func loadGlobalFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &InvalidConfigError{Field: path, Message: "cannot stat", Err: err}
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, &InvalidConfigError{Field: path, Message: "cannot parse", Err: err}
	}

	section, ok := raw["projclean"].(map[string]any)
	if !ok {
		return nil, nil
	}

	flat := make(map[string]any)
	for _, key := range []string{"time", "size", "cwd"} {
		if v, ok := section[key]; ok {
			flat[key] = v
		}
	}
	for _, key := range []string{"rules", "exclude"} {
		if v, ok := section[key]; ok {
			flat[key] = rawToStringSlice(v)
		}
	}
	return flat, nil
}

// rawToStringSlice converts a raw TOML array value into []string.
func rawToStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// loadLayer merges a flat map into k and marks every key in the map as
// originating from src.
func loadLayer(k *koanf.Koanf, m map[string]any, sources SourceMap, src Source) error {
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return fmt.Errorf("merge layer %s: %w", src.String(), err)
	}
	for key := range m {
		sources[key] = src
	}
	return nil
}
