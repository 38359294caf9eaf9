// Package filesystem provides the filesystem abstraction used by deplink's
// readers (configuration, package descriptors and ignore files).
//
// Only reads go through FS: the mirror writes through the copy service,
// which owns its own I/O.
package filesystem
