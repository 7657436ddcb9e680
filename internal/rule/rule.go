// Package rule parses and holds a single project-kind purge rule: which
// directory names to purge, and which sibling file glob(s) detect the
// project that owns them.
package rule

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ParseError reports a malformed rule string or an invalid detector glob.
// It is the Go realization of spec.md's InvalidRule taxonomy member.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid rule %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Rule is a parsed specification of one project kind. It is immutable once
// constructed and safe to share by reference across any number of
// concurrent Matcher instances.
type Rule struct {
	id        string
	purge     map[string][]string
	detectors []string
}

// Parse parses a rule string of the shape
// "<purgeList>[@<detectList>]" where <purgeList> is a non-empty
// comma-separated list of purge path specs (a bare name, or a slash-joined
// "trigger/tail..." path) and <detectList>, when present, is a
// comma-separated list of glob patterns matched against sibling file names.
//
// An empty detector list is a valid, meaningful value: it marks a
// "no-detection" rule, where presence of the trigger alone is enough to
// match (Rule.HasNoDetectors will report true).
func Parse(raw string) (*Rule, error) {
	purgePart, detectPart, hasDetect := strings.Cut(raw, "@")

	purgePaths := strings.Split(strings.TrimSpace(purgePart), ",")
	purgePaths = trimAll(purgePaths)
	if len(purgePaths) == 0 || (len(purgePaths) == 1 && purgePaths[0] == "") {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("purge list is empty")}
	}

	var detectors []string
	if hasDetect {
		detectPart = strings.TrimSpace(detectPart)
		if detectPart != "" {
			detectors = trimAll(strings.Split(detectPart, ","))
			for _, glob := range detectors {
				if !doublestar.ValidatePattern(glob) {
					return nil, &ParseError{Raw: raw, Err: fmt.Errorf("malformed detector glob %q", glob)}
				}
			}
		}
	}

	purge := make(map[string][]string)
	for _, path := range purgePaths {
		trigger, _, found := strings.Cut(path, "/")
		if !found {
			trigger = path
		}
		purge[trigger] = append(purge[trigger], path)
	}

	return &Rule{id: raw, purge: purge, detectors: detectors}, nil
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ID returns the raw rule string this Rule was parsed from; it also serves
// as the rule identifier attached to every PathItem it matches.
func (r *Rule) ID() string {
	return r.id
}

// TriggerPurges returns the ordered list of relative purge paths that should
// be resolved when name fires as a trigger, and whether name is a trigger of
// this rule at all.
func (r *Rule) TriggerPurges(name string) ([]string, bool) {
	paths, ok := r.purge[name]
	return paths, ok
}

// MatchesDetector reports whether any of this rule's detector globs matches
// name.
func (r *Rule) MatchesDetector(name string) bool {
	for _, glob := range r.detectors {
		if ok, _ := doublestar.Match(glob, name); ok {
			return true
		}
	}
	return false
}

// HasNoDetectors reports whether this rule's detector list is empty: a
// no-detection rule, where the bare presence of the trigger is enough.
func (r *Rule) HasNoDetectors() bool {
	return len(r.detectors) == 0
}
