// Package filter implements the scan engine's path-inclusion collaborator
// (spec.md §6 "Filter"), grounded on the original's filter_path: separate
// include/exclude pattern lists, with directories matched distinctly from
// files.
package filter

import "path/filepath"

// Filter decides whether a relative path should be scanned.
type Filter interface {
	// Matches reports whether relPath (forward-slash, disk-root-relative)
	// is included. isDir distinguishes a directory entry from a file/link,
	// since a pattern like "tmp/" should only ever exclude directories.
	Matches(relPath string, isDir bool) bool
}

// Everything includes every path; it is the zero-config default.
type Everything struct{}

func (Everything) Matches(string, bool) bool { return true }

// Rule is one include/exclude pattern. Dir, when true, only ever matches
// directory entries (mirroring the original's trailing-slash directory
// patterns).
type Rule struct {
	Pattern string
	Include bool
	Dir     bool
}

// List evaluates an ordered list of rules; the last matching rule wins,
// defaulting to inclusion when no rule matches — the same semantics as a
// conventional include/exclude filter list.
type List struct {
	Rules []Rule
}

// NewList builds a List from rule literals, validating each pattern eagerly
// so a malformed glob is reported at configuration time, not mid-scan.
func NewList(rules []Rule) (*List, error) {
	for _, r := range rules {
		if _, err := filepath.Match(r.Pattern, "x"); err != nil {
			return nil, err
		}
	}
	return &List{Rules: rules}, nil
}

func (l *List) Matches(relPath string, isDir bool) bool {
	included := true
	for _, r := range l.Rules {
		if r.Dir && !isDir {
			continue
		}
		if ok, _ := filepath.Match(r.Pattern, relPath); ok {
			included = r.Include
		}
	}
	return included
}
