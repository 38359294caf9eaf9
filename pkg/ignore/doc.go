// Package ignore builds the publishable-file predicate for a linked
// package.
//
// A predicate is compiled from three ordered pattern groups:
//
//  1. the built-in defaults (version control dirs, editor and OS
//     artifacts, package manager artifacts)
//  2. the package's .npmignore, or its .gitignore when no .npmignore
//     exists
//  3. forced re-inclusions: one "!entry" per element of package.json
//     `files`, then the directory of `main`
//
// Patterns use gitignore syntax and the last matching pattern wins, so a
// later "!pattern" re-includes what an earlier group excluded. A path
// whose parent directory is excluded is excluded as well. The root of the
// tree ("") is never excluded.
//
// One Predicate is built per package and shared by the watch service and
// the copy service; it is immutable after Compile returns.
package ignore
