package ignore

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/filesystem"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/project"
)

// Builder composes the rule set of a package from its ignore files and
// package descriptor.
type Builder struct {
	fs filesystem.FS
}

// NewBuilder creates a builder reading through fsys
func NewBuilder(fsys filesystem.FS) *Builder {
	return &Builder{fs: fsys}
}

// Build compiles the predicate for the package at root. Problems reading
// the package's sources are returned as warnings; the predicate is always
// built from whatever groups could be read.
func (b *Builder) Build(root string) (*Predicate, []*errors.DeplinkError) {
	logger := logging.GetLogger("ignore").With().Str("root", root).Logger()

	rs, warnings := b.RuleSet(root)
	p := Compile(root, rs)

	logger.Debug().
		Str("ignoreFile", rs.IgnoreFile).
		Int("ignorePatterns", len(rs.PackageIgnore)).
		Strs("reinclusions", rs.Reinclusions).
		Int("rules", len(p.rules)).
		Msg("Compiled ignore predicate")

	return p, warnings
}

// RuleSet reads the pattern groups for the package at root
func (b *Builder) RuleSet(root string) (RuleSet, []*errors.DeplinkError) {
	var warnings []*errors.DeplinkError

	rs := RuleSet{Defaults: append([]string(nil), DefaultPatterns...)}

	// .npmignore wins outright; .gitignore is only read without it
	for _, name := range []string{NpmIgnoreFile, GitIgnoreFile} {
		path := filepath.Join(root, name)
		if !filesystem.Exists(b.fs, path) {
			continue
		}
		data, err := b.fs.ReadFile(path)
		if err != nil {
			warnings = append(warnings, errors.Wrapf(err, errors.ErrIgnoreSource,
				"cannot read %s, its patterns are not applied", path).WithDetail("path", path))
		} else {
			rs.IgnoreFile = name
			rs.PackageIgnore = splitLines(string(data))
		}
		break
	}

	pkg, err := project.Load(b.fs, root)
	if err != nil {
		warnings = append(warnings, errors.Wrapf(err, errors.ErrIgnoreSource,
			"cannot read package.json in %s, files and main are not force-included", root).
			WithDetail("path", filepath.Join(root, project.DescriptorFile)))
		return rs, warnings
	}
	rs.Reinclusions = Reinclusions(pkg)

	return rs, warnings
}

// Reinclusions returns the negation patterns derived from a package's
// `files` allow-list and `main` directory
func Reinclusions(pkg *project.Descriptor) []string {
	var lines []string
	for _, entry := range pkg.Files {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		lines = append(lines, "!"+entry)
	}
	if dir := pkg.MainDir(); dir != "" {
		lines = append(lines, "!"+dir)
	}
	return lines
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
