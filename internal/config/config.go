package config

import (
	"github.com/projclean/projclean/internal/rule"
)

// Config holds an ordered Rule sequence, an exclude set, and the optional
// size/age predicates that gate which matched paths are reported. It is the
// Go realization of spec.md §4.2: everything the Matcher and Walker need to
// decide what to report is read from here, and nothing in Config depends on
// a live filesystem.
type Config struct {
	Rules   []*rule.Rule
	Exclude Ignorer
	Age     *Predicate
	Size    *Predicate
}

// Options collects the raw, unvalidated inputs New resolves into a Config.
type Options struct {
	RuleStrings  []string
	ExcludeNames []string
	AgeFilter    string
	SizeFilter   string
}

// New validates and assembles a Config from raw CLI/config-file values. Each
// rule string is parsed independently; the first malformed one fails the
// whole call. An unknown age or size filter value fails with
// InvalidConfigError.
func New(opts Options) (*Config, error) {
	rules := make([]*rule.Rule, 0, len(opts.RuleStrings))
	for _, raw := range opts.RuleStrings {
		r, err := rule.Parse(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	cfg := &Config{
		Rules:   rules,
		Exclude: NewNameSetIgnorer(opts.ExcludeNames),
	}

	if opts.AgeFilter != "" {
		age, err := ParseAgePredicate(opts.AgeFilter)
		if err != nil {
			return nil, err
		}
		cfg.Age = age
	}

	if opts.SizeFilter != "" {
		size, err := ParseSizePredicate(opts.SizeFilter)
		if err != nil {
			return nil, err
		}
		cfg.Size = size
	}

	return cfg, nil
}

// IsExcluded reports whether name is in the exclude set. It never descends
// into a directory whose own name is excluded, regardless of whether that
// directory would otherwise trigger a rule.
func (c *Config) IsExcluded(name string) bool {
	return c.Exclude.IsIgnored(name)
}
