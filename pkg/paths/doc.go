// Package paths provides path handling for deplink: home directory
// expansion for manifest entries and normalisation of every source and
// destination to an absolute, cleaned form before any watch or copy starts.
package paths
