package commands

import (
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/manifest"
)

// ListResult is what the list command shows
type ListResult struct {
	ConfigPath  string            `json:"config" yaml:"config"`
	ProjectRoot string            `json:"project" yaml:"project"`
	Targets     []manifest.Target `json:"targets" yaml:"targets"`
	Warnings    []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	codes []errors.ErrorCode
}

// List resolves the manifest and reports the targets without copying
func List(opts Options) (*ListResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "List").Msg("Executing command")

	plan, err := Prepare(opts)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		ConfigPath:  plan.Config.Path,
		ProjectRoot: plan.ProjectRoot,
		Targets:     plan.Targets,
	}
	for _, w := range plan.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
		result.codes = append(result.codes, w.Code)
	}

	log.Info().Str("command", "List").Int("targets", len(result.Targets)).Msg("Command finished")
	return result, nil
}

// WarningCodes returns the codes of the result's warnings, in order
func (r *ListResult) WarningCodes() []errors.ErrorCode {
	return r.codes
}
