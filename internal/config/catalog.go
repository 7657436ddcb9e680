package config

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/projclean/projclean/internal/rule"
)

//go:embed catalog.toml
var catalogTOML []byte

// RuleCatalogEntry is one built-in rule offered by the interactive rule
// picker (SPEC_FULL.md §2.3 / §4.11): a human label paired with the raw
// rule string it expands to.
type RuleCatalogEntry struct {
	Label string
	Rule  *rule.Rule
}

type catalogFile struct {
	Catalog []catalogEntry `toml:"catalog"`
}

type catalogEntry struct {
	Label string `toml:"label"`
	Rule  string `toml:"rule"`
}

// Catalog parses the embedded built-in rule catalog. Every entry's rule
// string must itself parse as a valid Rule; a malformed built-in entry is a
// programming error, not a user input error, so Catalog panics rather than
// returning it through the InvalidConfig taxonomy.
func Catalog() []RuleCatalogEntry {
	var parsed catalogFile
	if _, err := toml.Decode(string(catalogTOML), &parsed); err != nil {
		panic(fmt.Sprintf("config: embedded catalog.toml is malformed: %v", err))
	}

	entries := make([]RuleCatalogEntry, 0, len(parsed.Catalog))
	for _, e := range parsed.Catalog {
		r, err := rule.Parse(e.Rule)
		if err != nil {
			panic(fmt.Sprintf("config: embedded catalog entry %q is malformed: %v", e.Label, err))
		}
		entries = append(entries, RuleCatalogEntry{Label: e.Label, Rule: r})
	}
	return entries
}
