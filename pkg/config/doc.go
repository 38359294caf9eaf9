// Package config discovers, loads and validates deplink configuration.
//
// Configuration is layered with koanf: embedded defaults, then the
// configuration file, then DEPLINK_* environment variables. The file is
// either given explicitly or discovered by walking up from the project
// directory, trying SearchPlaces in order in each directory. A
// package.json only counts when it carries a "deplink" key.
//
// Manifest paths are kept as written; they are resolved against Config.Dir
// (the configuration file's directory) by the manifest package.
package config
