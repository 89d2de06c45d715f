package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ruleweave/ruleweave/pkg/engine"
	"github.com/ruleweave/ruleweave/pkg/report"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/source"
	"github.com/ruleweave/ruleweave/pkg/strategies"
	"github.com/ruleweave/ruleweave/pkg/validate"
)

func newValidateCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate [files...]",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			results, diags, err := runValidation(cmd.Context(), app, args)
			if err != nil {
				return err
			}

			failed := false
			threshold := severityRank(strategies.Severity(app.cfg.Validate.FailOn))

			if app.outputFormat(opts) == "json" {
				if err := report.NewJSONRenderer(cmd.OutOrStdout()).Render(results); err != nil {
					return err
				}
			} else {
				renderer := report.NewTextRenderer(cmd.OutOrStdout())
				renderer.Diagnostics(diags)
				for _, result := range results {
					renderer.ValidationResult(result)
				}
			}

			for _, result := range results {
				for _, issue := range result.Issues {
					if severityRank(issue.Severity) >= threshold {
						failed = true
					}
				}
			}
			if failed {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
	return cmd
}

// runValidation resolves the target files and validates them as a
// batch. Without explicit files, the union of the loaded rules' glob
// patterns decides what gets validated.
func runValidation(ctx context.Context, app *app, args []string) ([]validate.Result, []rules.Diagnostic, error) {
	ruleSet, diags, err := app.eng.Loader().LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	files := args
	if len(files) == 0 {
		patterns := collectGlobs(ruleSet)
		files, err = source.Files(app.root, patterns)
		if err != nil {
			return nil, nil, err
		}
	}

	index := engine.FileIndex(files)
	reqs := make([]validate.Request, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(app.root, filepath.FromSlash(f)))
		if err != nil {
			return nil, nil, err
		}
		reqs = append(reqs, validate.Request{File: f, Content: content, KnownFiles: index})
	}

	results, err := app.eng.ValidateBatch(ctx, reqs)
	if err != nil {
		return nil, nil, err
	}
	return results, diags, nil
}

func collectGlobs(ruleSet []rules.Rule) []string {
	seen := make(map[string]bool)
	var patterns []string
	for _, rule := range ruleSet {
		for _, glob := range rule.Globs {
			if !seen[glob] {
				seen[glob] = true
				patterns = append(patterns, glob)
			}
		}
	}
	return patterns
}

// severityRank orders severities so a fail-on threshold can compare them
func severityRank(sev strategies.Severity) int {
	switch sev {
	case strategies.SeverityError:
		return 2
	case strategies.SeverityWarning:
		return 1
	default:
		return 0
	}
}
