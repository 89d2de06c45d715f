package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ruleweave/ruleweave/pkg/engine"
	"github.com/ruleweave/ruleweave/pkg/report"
	"github.com/ruleweave/ruleweave/pkg/source"
	"github.com/ruleweave/ruleweave/pkg/validate"
)

func newFixCmd(opts *globalOpts) *cobra.Command {
	var (
		write     bool
		reportDir string
	)

	cmd := &cobra.Command{
		Use:     "fix [files...]",
		Short:   MsgFixShort,
		Long:    MsgFixLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ruleSet, _, err := app.eng.Loader().LoadAll(ctx)
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files, err = source.Files(app.root, collectGlobs(ruleSet))
				if err != nil {
					return err
				}
			}
			index := engine.FileIndex(files)

			var sink report.Sink
			if reportDir != "" {
				sink = report.NewFilesystemSink(reportDir)
			}

			textRenderer := report.NewTextRenderer(cmd.OutOrStdout())
			jsonOutput := app.outputFormat(opts) == "json"
			jsonRenderer := report.NewJSONRenderer(cmd.OutOrStdout())

			for _, f := range files {
				content, err := os.ReadFile(filepath.Join(app.root, filepath.FromSlash(f)))
				if err != nil {
					return err
				}

				fixReport, _, err := app.eng.FixFile(ctx, validate.Request{
					File:       f,
					Content:    content,
					KnownFiles: index,
				})
				if err != nil {
					return err
				}

				if jsonOutput {
					if err := jsonRenderer.Render(fixReport); err != nil {
						return err
					}
				} else {
					textRenderer.FixReport(fixReport)
				}

				if write && fixReport.Changed() {
					target := filepath.Join(app.root, filepath.FromSlash(f))
					if err := os.WriteFile(target, fixReport.Content, 0o644); err != nil {
						return err
					}
				}

				if sink != nil {
					name := filepath.Base(f) + ".fix.json"
					if err := report.StoreJSON(ctx, sink, name, fixReport); err != nil {
						return err
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write fixed content back to the files")
	cmd.Flags().Bool("dry-run", true, "Preview fixes without touching files (default)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Persist fix reports as JSON under this directory")
	cmd.MarkFlagsMutuallyExclusive("write", "dry-run")

	return cmd
}
