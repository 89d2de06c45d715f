package commands

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/ruleweave/ruleweave/pkg/generate"
	"github.com/ruleweave/ruleweave/pkg/matching"
	"github.com/ruleweave/ruleweave/pkg/report"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

func newGenerateCmd(opts *globalOpts) *cobra.Command {
	var (
		phase        string
		technologies []string
		projectType  string
		filesPresent []string
		dependencies []string
		out          string
		strict       bool
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   MsgGenerateShort,
		Long:    MsgGenerateLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			mctx := matching.Context{}
			if phase != "" {
				mctx[rules.CategoryPhase] = []string{phase}
			}
			if len(technologies) > 0 {
				mctx[rules.CategoryTechnologies] = technologies
			}
			if projectType != "" {
				mctx[rules.CategoryProjectType] = []string{projectType}
			}
			if len(filesPresent) > 0 {
				mctx[rules.CategoryFilesPresent] = filesPresent
			}
			if len(dependencies) > 0 {
				mctx[rules.CategoryDependencies] = dependencies
			}

			cfg, diags, err := app.eng.GenerateConfig(cmd.Context(), mctx,
				generate.Options{Strict: strict})
			if err != nil {
				return err
			}

			if app.outputFormat(opts) == "json" {
				return report.NewJSONRenderer(cmd.OutOrStdout()).Render(cfg)
			}

			renderer := report.NewTextRenderer(cmd.OutOrStdout())
			renderer.Diagnostics(diags)

			if out != "" {
				data, err := toml.Marshal(cfg.Values)
				if err != nil {
					return err
				}
				return os.WriteFile(out, data, 0o644)
			}
			return renderer.Configuration(cfg)
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Project phase, e.g. development")
	cmd.Flags().StringSliceVar(&technologies, "tech", nil, "Technologies in use, e.g. typescript,react")
	cmd.Flags().StringVar(&projectType, "project-type", "", "Project type, e.g. library")
	cmd.Flags().StringSliceVar(&filesPresent, "files-present", nil, "Marker files present in the project")
	cmd.Flags().StringSliceVar(&dependencies, "deps", nil, "Dependencies present in the project")
	cmd.Flags().StringVar(&out, "out", "", "Write the configuration to this file as TOML")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on unknown include identifiers")

	return cmd
}
