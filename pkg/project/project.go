// Package project reads npm package descriptors (package.json): the
// consumer's declared dependencies, and a linked package's `files`
// allow-list and `main` entry point.
package project

import (
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/filesystem"
)

// DescriptorFile is the package descriptor file name
const DescriptorFile = "package.json"

// Descriptor is the subset of package.json deplink relies on
type Descriptor struct {
	Name            string            `json:"name"`
	Main            string            `json:"main"`
	Files           []string          `json:"files"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`

	// Root is the directory holding the descriptor
	Root string `json:"-"`
}

// Load reads and parses <root>/package.json
func Load(fsys filesystem.FS, root string) (*Descriptor, error) {
	path := filepath.Join(root, DescriptorFile)
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProjectRead, "cannot read %s", path).
			WithDetail("path", path)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(err, errors.ErrProjectRead, "cannot parse %s", path).
			WithDetail("path", path)
	}
	d.Root = root
	return &d, nil
}

// Declares reports whether name appears in dependencies or devDependencies
func (d *Descriptor) Declares(name string) bool {
	if d == nil {
		return false
	}
	if _, ok := d.Dependencies[name]; ok {
		return true
	}
	_, ok := d.DevDependencies[name]
	return ok
}

// DeclaredNames returns every dependency and devDependency name, sorted
func (d *Descriptor) DeclaredNames() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(d.Dependencies)+len(d.DevDependencies))
	for name := range d.Dependencies {
		seen[name] = struct{}{}
	}
	for name := range d.DevDependencies {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MainDir returns the slash-separated directory of the `main` entry point,
// or "" when main is unset or sits at the package root.
func (d *Descriptor) MainDir() string {
	if d == nil || d.Main == "" {
		return ""
	}
	dir := filepath.ToSlash(filepath.Dir(filepath.Clean(filepath.FromSlash(d.Main))))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
