package commands

import (
	"context"

	"github.com/arthur-debert/deplink/pkg/copier"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/mirror"
	"github.com/arthur-debert/deplink/pkg/status"
	"github.com/arthur-debert/deplink/pkg/watch"
)

// WatchOptions defines the options for the Watch command
type WatchOptions struct {
	Options
	// Reporter receives the status board; nil discards it
	Reporter status.Reporter
}

// Watch mirrors every manifest target until ctx is cancelled
func Watch(ctx context.Context, opts WatchOptions) error {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Watch").Msg("Executing command")

	plan, err := Prepare(opts.Options)
	if err != nil {
		return err
	}

	sessions, warnings := mirror.Plan(plan.Targets, fsOrOS(opts.FS),
		watch.New(watch.Options{Debounce: plan.Config.Debounce}), copier.New())
	warnings = append(plan.Warnings, warnings...)

	err = mirror.NewEngine(opts.Reporter, warnings).Run(ctx, sessions)

	log.Info().Str("command", "Watch").Msg("Command finished")
	return err
}
