package deplink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Mirror local package sources into node_modules"
	MsgWatchShort      = "Watch local packages and mirror every change"
	MsgSyncShort       = "Mirror every local package once"
	MsgListShort       = "List the packages in the manifest"
	MsgInitShort       = "Create a starter deplink.config.toml"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Configuration file (default: search upward from the project)"
	MsgFlagProject = "Consumer project directory (default: current directory)"
	MsgFlagOutput  = "Output format: text, json or yaml"
	MsgFlagForce   = "Overwrite an existing configuration file"

	// Status messages
	MsgNothingToLink  = "Nothing to link: %v"
	MsgWarningPrefix  = "warning: "
	MsgNoTargets      = "No packages in the manifest."
	MsgListHeader     = "Packages from %s:"
	MsgListEntry      = "  %s\n    %s -> %s"
	MsgConfigWritten  = "Wrote %s"
	MsgSyncFailed     = "%d of %d packages failed to sync"
	MsgUnknownFormat  = "unknown output format %q"
	MsgUnknownCommand = "unknown command %q"
)

// Long messages and templates, embedded from msgs/
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/list-long.txt
	msgListLongRaw string
	MsgListLong    = strings.TrimSpace(msgListLongRaw)

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimSpace(msgListExampleRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimSpace(msgInitExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
