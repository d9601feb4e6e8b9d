// Package cli wires the calstage command tree.
package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gentoo-livegui/calstage/internal/version"
	"github.com/gentoo-livegui/calstage/pkg/cobrax/topics"
	"github.com/gentoo-livegui/calstage/pkg/commands/check"
	"github.com/gentoo-livegui/calstage/pkg/commands/clean"
	"github.com/gentoo-livegui/calstage/pkg/commands/install"
	"github.com/gentoo-livegui/calstage/pkg/commands/status"
	"github.com/gentoo-livegui/calstage/pkg/commands/vars"
	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/errors"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/style"
	"github.com/gentoo-livegui/calstage/pkg/ui"
)

//go:embed help/*.md
var helpFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		dryRun     bool
		formatName string
	)

	rootCmd := &cobra.Command{
		Use:     "calstage",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&formatName, "format", "auto", MsgFlagFormat)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Add all commands
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVarsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help from the embedded docs. Help stays
	// best-effort: a broken topic never takes the CLI down.
	if helpFS, err := fs.Sub(helpFiles, "help"); err == nil {
		_ = topics.Initialize(rootCmd, helpFS, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}

	return rootCmd
}

// loadConfig merges the configuration layers with the trailing VAR=value
// arguments applied on top.
func loadConfig(args []string) (*config.Config, error) {
	return config.Load(args)
}

// render writes a command result to the requested format: JSON gets the
// result itself, everything else goes through the style renderer.
func render(cmd *cobra.Command, v interface{}, text func(*style.Renderer) string) error {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(name)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "bad --format value")
	}

	switch ui.Resolve(format, os.Stdout) {
	case ui.FormatJSON:
		return ui.WriteJSON(cmd.OutOrStdout(), v)
	case ui.FormatText:
		fmt.Fprint(cmd.OutOrStdout(), text(style.NewRenderer(true)))
	default:
		fmt.Fprint(cmd.OutOrStdout(), text(style.NewRenderer(false)))
	}
	return nil
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "install [VAR=value...]",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			result, err := install.Run(cmd.Context(), install.Options{
				Config: cfg,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			return render(cmd, result.Install, func(r *style.Renderer) string {
				return r.RenderInstall(result.Install)
			})
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clean [VAR=value...]",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		Example: MsgCleanExample,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			result, err := clean.Run(clean.Options{
				Config: cfg,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			return render(cmd, result.Clean, func(r *style.Renderer) string {
				return r.RenderClean(result.Clean)
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status [VAR=value...]",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			result, err := status.Run(status.Options{Config: cfg})
			if err != nil {
				return err
			}

			return render(cmd, result, func(r *style.Renderer) string {
				return r.RenderStatus(result)
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check [VAR=value...]",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			result, err := check.Run(check.Options{Config: cfg})
			if err != nil {
				return err
			}

			if err := render(cmd, result, func(r *style.Renderer) string {
				return r.RenderCheck(result)
			}); err != nil {
				return err
			}

			if result.Failed() {
				return errors.Newf(errors.ErrPayloadInvalid,
					"payload check failed, %d findings", len(result.Findings))
			}
			return nil
		},
	}
}

func newVarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "vars [VAR=value...]",
		Short:   MsgVarsShort,
		Long:    MsgVarsLong,
		Example: MsgVarsExample,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			result, err := vars.Run(vars.Options{Config: cfg})
			if err != nil {
				return err
			}

			return render(cmd, result, func(r *style.Renderer) string {
				return r.RenderVars(result)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "calstage version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, "  built:  %s\n", version.Date)
			}
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Delegate to the help command's topics listing
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
				}
			}
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(calstage completion bash)

Zsh:
  $ calstage completion zsh > "${fpath[1]}/_calstage"

Fish:
  $ calstage completion fish | source

PowerShell:
  PS> calstage completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}
