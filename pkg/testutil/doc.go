// Package testutil provides utilities for testing deplink components.
//
// Trees are described inline as maps from slash-separated relative paths to
// file contents; a key ending in "/" creates an empty directory. Tests run
// against real directories from t.TempDir so the watch and copy services
// see the same filesystem the engine does in production.
package testutil
