package ignore

import (
	"path/filepath"
	"strings"
)

// RuleSet is the ordered composition of pattern groups for one package.
// Later groups override earlier ones.
type RuleSet struct {
	Defaults []string
	// IgnoreFile names the file PackageIgnore was read from, "" if none
	IgnoreFile    string
	PackageIgnore []string
	Reinclusions  []string
}

// Lines returns every pattern line in precedence order
func (rs RuleSet) Lines() []string {
	lines := make([]string, 0, len(rs.Defaults)+len(rs.PackageIgnore)+len(rs.Reinclusions))
	lines = append(lines, rs.Defaults...)
	lines = append(lines, rs.PackageIgnore...)
	lines = append(lines, rs.Reinclusions...)
	return lines
}

// Predicate decides whether a path is excluded from the mirror of the tree
// rooted at Root. It holds no mutable state and is safe for concurrent use.
type Predicate struct {
	root  string
	rules []rule
	set   RuleSet
}

// Compile builds a predicate for the tree at root from rs
func Compile(root string, rs RuleSet) *Predicate {
	p := &Predicate{root: filepath.Clean(root), set: rs}
	for _, line := range rs.Lines() {
		if r, ok := parseRule(line); ok {
			p.rules = append(p.rules, r)
		}
	}
	return p
}

// Root returns the directory paths are relativized against
func (p *Predicate) Root() string {
	return p.root
}

// Rules returns the rule set the predicate was compiled from
func (p *Predicate) Rules() RuleSet {
	return p.set
}

// Excludes reports whether rel, a path relative to the root, is left out
// of the mirror. isDir tells directory-only patterns ("build/") whether
// they apply. The root itself and paths outside the root are never
// excluded.
func (p *Predicate) Excludes(rel string, isDir bool) bool {
	rel = filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	if rel == "." || rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}

	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if p.ignored(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return p.ignored(rel, isDir)
}

// ExcludesPath is Excludes for an absolute path, relativized against Root
func (p *Predicate) ExcludesPath(path string, isDir bool) bool {
	rel, err := filepath.Rel(p.root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return p.Excludes(rel, isDir)
}

// ignored applies the rules in order; the last matching rule wins
func (p *Predicate) ignored(rel string, isDir bool) bool {
	ignored := false
	for _, r := range p.rules {
		if r.negate != ignored {
			// a rule can only flip the current verdict
			continue
		}
		if r.matches(rel, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}
