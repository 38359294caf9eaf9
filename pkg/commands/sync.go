package commands

import (
	"context"

	"github.com/arthur-debert/deplink/pkg/copier"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/manifest"
	"github.com/arthur-debert/deplink/pkg/mirror"
	"github.com/arthur-debert/deplink/pkg/status"
	"github.com/arthur-debert/deplink/pkg/watch"
)

// SyncOptions defines the options for the Sync command
type SyncOptions struct {
	Options
	// Reporter receives one line per target; nil discards them
	Reporter status.Reporter
}

// SyncResult reports a one-shot mirror
type SyncResult struct {
	Targets  []manifest.Target
	Warnings []*errors.DeplinkError
	// Failed maps package names to their copy failure
	Failed map[string]error
}

// Sync copies every manifest target once. Copy failures are collected in
// the result and combined into the returned error.
func Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Sync").Msg("Executing command")

	plan, err := Prepare(opts.Options)
	if err != nil {
		return nil, err
	}

	sessions, warnings := mirror.Plan(plan.Targets, fsOrOS(opts.FS),
		watch.New(watch.Options{Debounce: plan.Config.Debounce}), copier.New())

	result := &SyncResult{
		Targets:  plan.Targets,
		Warnings: append(plan.Warnings, warnings...),
		Failed:   make(map[string]error),
	}

	err = mirror.NewEngine(opts.Reporter, result.Warnings).SyncAll(ctx, sessions)
	for _, s := range sessions {
		if serr := s.LastError(); serr != nil {
			result.Failed[s.Target.Name] = serr
		}
	}

	log.Info().Str("command", "Sync").Int("failed", len(result.Failed)).Msg("Command finished")
	return result, err
}
