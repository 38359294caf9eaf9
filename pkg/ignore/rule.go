package ignore

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rule is one compiled gitignore pattern line
type rule struct {
	source   string // original line, for debugging
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
}

// parseRule compiles a single gitignore line. ok is false for blank lines,
// comments and patterns that cannot match anything.
func parseRule(line string) (r rule, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	line = trimTrailingSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}
	r.source = line

	switch {
	case strings.HasPrefix(line, `\#`), strings.HasPrefix(line, `\!`):
		line = line[1:]
	case strings.HasPrefix(line, "!"):
		r.negate = true
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	// npm resolves `files` entries such as "./lib" relative to the root
	for strings.HasPrefix(line, "./") {
		line = line[2:]
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = strings.TrimLeft(line, "/")
	}
	if strings.Contains(line, "/") {
		r.anchored = true
	}
	if line == "" || line == "." {
		return rule{}, false
	}
	r.pattern = line
	return r, true
}

// trimTrailingSpace drops unescaped trailing spaces
func trimTrailingSpace(line string) string {
	for strings.HasSuffix(line, " ") && !strings.HasSuffix(line, `\ `) {
		line = line[:len(line)-1]
	}
	if strings.HasSuffix(line, `\ `) {
		line = line[:len(line)-2] + " "
	}
	return line
}

// matches reports whether the rule applies to rel, a clean slash-separated
// path relative to the tree root.
func (r rule) matches(rel string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	name := rel
	if !r.anchored {
		name = path.Base(rel)
	}
	// a malformed pattern never matches
	ok, err := doublestar.Match(r.pattern, name)
	return err == nil && ok
}
