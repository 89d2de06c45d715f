package commands

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ruleweave/ruleweave/internal/version"
	"github.com/ruleweave/ruleweave/pkg/config"
	"github.com/ruleweave/ruleweave/pkg/engine"
	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/report"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/source"
)

// globalOpts carries the persistent flags into the subcommands
type globalOpts struct {
	verbosity int
	root      string
	format    string
	color     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:     "ruleweave",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			report.ConfigureColor(opts.color, os.Stdout)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", ".", "Project root directory")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", "Output format: text or json (default from config)")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto", "Color output: auto, always or never")

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newFixCmd(opts))
	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// app bundles the loaded configuration and wired engine for one command
// invocation
type app struct {
	root string
	cfg  *config.Config
	eng  *engine.Engine
}

func newApp(opts *globalOpts) (*app, error) {
	cfg, err := config.Load(opts.root)
	if err != nil {
		return nil, err
	}

	loader := rules.NewLoader(source.NewFilesystem(opts.root), cfg.Rules.Dir,
		rules.WithStrict(cfg.Rules.Strict))
	eng := engine.New(loader, engine.WithConcurrency(cfg.Validate.Concurrency))

	return &app{root: opts.root, cfg: cfg, eng: eng}, nil
}

// outputFormat resolves the output format: flag first, then config
func (a *app) outputFormat(opts *globalOpts) string {
	if opts.format != "" {
		return opts.format
	}
	return a.cfg.Output.Format
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
