// Package mirror keeps local package sources mirrored into a project's
// install directory.
//
// Each manifest target gets a Session: one ignore predicate, built once,
// shared by the watch and the copy of that target. The Engine runs all
// sessions concurrently; a failure in one target never stops the others.
//
// A session moves through
//
//	starting -> watching <-> syncing
//	    \          |
//	     `------> stopped
//
// and copies once right after its watch is established.
package mirror
