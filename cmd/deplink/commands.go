package deplink

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/arthur-debert/deplink/internal/version"
	"github.com/arthur-debert/deplink/pkg/cobrax/topics"
	"github.com/arthur-debert/deplink/pkg/commands"
	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/status"
	"github.com/arthur-debert/deplink/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed topics
var topicFiles embed.FS

// globalFlags are shared by every command
type globalFlags struct {
	verbosity  int
	configPath string
	projectDir string
}

func (g *globalFlags) options() commands.Options {
	return commands.Options{ConfigPath: g.configPath, ProjectDir: g.projectDir}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "deplink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{
				Verbosity: flags.verbosity,
				Console:   cmd.ErrOrStderr(),
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags)
		},
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&flags.projectDir, "project", "p", "", MsgFlagProject)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newWatchCmd(flags))
	rootCmd.AddCommand(newSyncCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newInitCmd(flags))
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help system
	if sub, err := fs.Sub(topicFiles, "topics"); err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		}
		if err := topics.InitializeWithOptions(rootCmd, sub, opts); err != nil {
			log.Debug().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags)
		},
	}
}

func runWatch(cmd *cobra.Command, flags *globalFlags) error {
	err := commands.Watch(commandContext(cmd), commands.WatchOptions{
		Options:  flags.options(),
		Reporter: status.NewTerminal(cmd.OutOrStdout()),
	})
	return handleConfigurationError(cmd, err)
}

func newSyncCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := commands.Sync(commandContext(cmd), commands.SyncOptions{
				Options: flags.options(),
				Reporter: status.ReporterFunc(func(line string) {
					fmt.Fprintln(out, line)
				}),
			})
			if result == nil {
				return handleConfigurationError(cmd, err)
			}

			printWarnings(cmd.ErrOrStderr(), result.Warnings)
			if len(result.Failed) > 0 {
				log.Debug().Err(err).Msg("Sync failures")
				return fmt.Errorf(MsgSyncFailed, len(result.Failed), len(result.Targets))
			}
			return err
		},
	}
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.List(flags.options())
			if err != nil {
				return handleConfigurationError(cmd, err)
			}
			return renderList(cmd.OutOrStdout(), format, result)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", MsgFlagOutput)
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func renderList(w io.Writer, format string, result *commands.ListResult) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		if len(result.Targets) == 0 {
			_, err := fmt.Fprintln(w, MsgNoTargets)
			return err
		}
		lines := []string{style.TitleStyle.Render(fmt.Sprintf(MsgListHeader, result.ConfigPath))}
		for _, t := range result.Targets {
			lines = append(lines, fmt.Sprintf(MsgListEntry,
				style.PackageStyle.Render(t.Name),
				style.PathStyle.Render(t.Source),
				style.PathStyle.Render(t.Destination)))
		}
		for _, warning := range result.Warnings {
			lines = append(lines, style.WarningIndicator+" "+style.WarningStyle.Render(warning))
		}
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	default:
		return errors.Newf(errors.ErrInvalidInput, MsgUnknownFormat, format)
	}
}

func newInitCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init [name=path...]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Init(commands.InitOptions{
				Dir:     flags.projectDir,
				Entries: args,
				Force:   force,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), style.SuccessIndicator+" "+fmt.Sprintf(MsgConfigWritten, result.Path))
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf(MsgUnknownCommand, args[0])
		},
	}
}

// handleConfigurationError turns "nothing to link" conditions into a
// warning and a successful exit
func handleConfigurationError(cmd *cobra.Command, err error) error {
	if err == nil || !errors.IsConfigurationError(err) {
		return err
	}
	log.Debug().Str("code", string(errors.GetErrorCode(err))).Msg("Configuration error")
	fmt.Fprintln(cmd.ErrOrStderr(), style.WarningStyle.Render(MsgWarningPrefix+fmt.Sprintf(MsgNothingToLink, err)))
	return nil
}

func printWarnings(w io.Writer, warnings []*errors.DeplinkError) {
	for _, warning := range warnings {
		fmt.Fprintln(w, style.WarningIndicator+" "+style.WarningStyle.Render(warning.Message))
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command with ctx and returns the process exit code
func Execute(ctx context.Context) int {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}
	return 0
}
