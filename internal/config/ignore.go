package config

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Ignorer reports whether a sibling name should be treated as absent for
// matching purposes. name is a plain directory-entry name (no path
// separators), since spec.md's exclude set and rule matching are both
// evaluated at a single directory level.
type Ignorer interface {
	IsIgnored(name string) bool
}

// NameSetIgnorer is the plain --exclude set from spec.md §3/§6: exact
// directory-entry name matches, evaluated at any depth.
type NameSetIgnorer map[string]struct{}

// NewNameSetIgnorer builds a NameSetIgnorer from a slice of names.
func NewNameSetIgnorer(names []string) NameSetIgnorer {
	set := make(NameSetIgnorer, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsIgnored implements Ignorer.
func (s NameSetIgnorer) IsIgnored(name string) bool {
	_, ok := s[name]
	return ok
}

// Has reports whether name is in the exclude set, for callers that want the
// plain-set semantics without going through the Ignorer interface.
func (s NameSetIgnorer) Has(name string) bool {
	return s.IsIgnored(name)
}

// ProjcleanIgnoreFile is the supplemental, gitignore-syntax exclude layer
// (§2.3 of SPEC_FULL.md): a ".projcleanignore" file at the scan root whose
// patterns are matched against a sibling's bare name, the same single-level
// granularity as the plain exclude set. It never changes the semantics of
// --exclude; it only adds another source of exclusion names that are
// resolved once, before the scan, into the same flat check.
type ProjcleanIgnoreFile struct {
	matcher *gitignore.GitIgnore
}

// LoadProjcleanIgnore reads "<root>/.projcleanignore" if it exists. A
// missing file is not an error: it returns (nil, nil), meaning "no
// supplemental layer".
func LoadProjcleanIgnore(root string) (*ProjcleanIgnoreFile, error) {
	path := filepath.Join(root, ".projcleanignore")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &InvalidConfigError{Field: ".projcleanignore", Message: "cannot stat", Err: err}
	}

	compiled, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, &InvalidConfigError{Field: ".projcleanignore", Message: "cannot parse", Err: err}
	}
	return &ProjcleanIgnoreFile{matcher: compiled}, nil
}

// IsIgnored implements Ignorer. Matching is name-only, since this layer is
// evaluated at the same single directory level as the plain exclude set.
// The name is also tried with a trailing slash so that directory patterns
// such as "vendor/" match the bare entry name "vendor".
func (f *ProjcleanIgnoreFile) IsIgnored(name string) bool {
	if f == nil {
		return false
	}
	return f.matcher.MatchesPath(name) || f.matcher.MatchesPath(name+"/")
}

// CompositeIgnorer chains multiple Ignorer sources; a name is ignored if
// any of them says so. Ported in shape from harvx's
// internal/discovery.CompositeIgnorer, collapsed to the single-level
// granularity this domain needs.
type CompositeIgnorer struct {
	ignorers []Ignorer
}

// NewCompositeIgnorer builds a CompositeIgnorer from the given sources. Nil
// entries are skipped, so an absent .projcleanignore layer can be passed
// through directly.
func NewCompositeIgnorer(ignorers ...Ignorer) *CompositeIgnorer {
	filtered := make([]Ignorer, 0, len(ignorers))
	for _, ig := range ignorers {
		if ig == nil {
			continue
		}
		if pf, ok := ig.(*ProjcleanIgnoreFile); ok && pf == nil {
			continue
		}
		filtered = append(filtered, ig)
	}
	return &CompositeIgnorer{ignorers: filtered}
}

// IsIgnored implements Ignorer.
func (c *CompositeIgnorer) IsIgnored(name string) bool {
	for _, ig := range c.ignorers {
		if ig.IsIgnored(name) {
			return true
		}
	}
	return false
}
