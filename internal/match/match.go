// Package match implements the per-directory decision engine: given the
// sibling listing of one directory, it determines which children are purge
// targets and under which rule.
package match

import (
	"github.com/projclean/projclean/internal/config"
)

// Target is the outcome of a successful trigger match: the rule that
// claimed the trigger, and the ordered relative purge paths to resolve
// under the directory that owns the trigger.
type Target struct {
	RuleID     string
	PurgePaths []string
}

// Matcher is instantiated fresh for each directory the Walker visits. Feed
// it every sibling entry of that directory with Ingest, then call Finalize
// once to get the trigger-name -> Target decision map.
//
// A Matcher holds no state shared across directories and carries no
// reference to the filesystem; it is pure decision logic over the entry
// names and types passed to it.
type Matcher struct {
	cfg *config.Config

	// candidates[ruleIdx] maps each trigger seen in this directory for that
	// rule to its purge paths; the map carries no ordering.
	candidates []map[string][]string
	// fired[ruleIdx] records whether that rule's detector matched some
	// sibling regular file in this directory.
	fired []bool
}

// New returns a Matcher bound to cfg's rule order and exclude set. cfg is
// shared by reference and must not be mutated while the Matcher is in use.
func New(cfg *config.Config) *Matcher {
	return &Matcher{
		cfg:        cfg,
		candidates: make([]map[string][]string, len(cfg.Rules)),
		fired:      make([]bool, len(cfg.Rules)),
	}
}

// Ingest records one sibling directory entry. name is the bare entry name;
// isRegularFile distinguishes detector-eligible entries (only regular files
// can fire a detector glob, per the file-name-only matching rule) from
// directory entries (which can only ever be triggers, never detectors).
//
// Names in the configured exclude set are skipped entirely: they can
// neither trigger a rule nor fire a detector.
func (m *Matcher) Ingest(name string, isRegularFile bool) {
	if m.cfg.IsExcluded(name) {
		return
	}

	for i, r := range m.cfg.Rules {
		if paths, ok := r.TriggerPurges(name); ok {
			if m.candidates[i] == nil {
				m.candidates[i] = make(map[string][]string)
			}
			if _, seen := m.candidates[i][name]; !seen {
				m.candidates[i][name] = paths
			}
		}
		if isRegularFile && r.MatchesDetector(name) {
			m.fired[i] = true
		}
	}
}

// Finalize builds the trigger-name -> Target decision map for the
// directory just ingested. Rules are considered in their configured order;
// a rule's candidate triggers are included only if the rule's detector
// fired in this directory or the rule has no detectors at all. When two
// rules would both claim the same trigger name, the first rule in
// configured order wins: later rules skip names already present in the
// result.
func (m *Matcher) Finalize() map[string]Target {
	result := make(map[string]Target)

	for i, r := range m.cfg.Rules {
		if m.candidates[i] == nil {
			continue
		}
		if !r.HasNoDetectors() && !m.fired[i] {
			continue
		}
		for trigger, paths := range m.candidates[i] {
			if _, claimed := result[trigger]; claimed {
				continue
			}
			result[trigger] = Target{RuleID: r.ID(), PurgePaths: paths}
		}
	}

	return result
}
