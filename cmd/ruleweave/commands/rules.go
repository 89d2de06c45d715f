package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/report"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/strategies"
)

func newRulesCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRulesListCmd(opts))
	cmd.AddCommand(newRulesShowCmd(opts))
	cmd.AddCommand(newRulesLintCmd(opts))
	return cmd
}

func newRulesListCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgRulesListShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			ruleSet, diags, err := app.eng.Loader().LoadAll(cmd.Context())
			if err != nil {
				return err
			}

			if app.outputFormat(opts) == "json" {
				return report.NewJSONRenderer(cmd.OutOrStdout()).Render(ruleSet)
			}

			renderer := report.NewTextRenderer(cmd.OutOrStdout())
			renderer.Diagnostics(diags)
			renderer.RuleList(ruleSet)
			return nil
		},
	}
}

func newRulesShowCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: MsgRulesShowShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			rule, err := app.eng.Loader().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if app.outputFormat(opts) == "json" {
				return report.NewJSONRenderer(cmd.OutOrStdout()).Render(rule)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", rule.ID, rule.Name)
			if rule.Description != "" {
				fmt.Fprintln(out, rule.Description)
			}
			if len(rule.Globs) > 0 {
				fmt.Fprintf(out, "globs: %v\n", rule.Globs)
			}
			if rule.Body != "" {
				fmt.Fprint(out, report.Markdown(rule.Body, 100))
			}
			return nil
		},
	}
}

// newRulesLintCmd checks every loaded rule beyond schema validation:
// validation entries must reference registered strategies, includes
// must point at known rules.
func newRulesLintCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: MsgRulesLintShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			ruleSet, diags, err := app.eng.Loader().LoadAll(cmd.Context())
			if err != nil {
				return err
			}

			diags = append(diags, lintRules(ruleSet, app.eng.Registry())...)

			renderer := report.NewTextRenderer(cmd.OutOrStdout())
			renderer.Diagnostics(diags)
			if len(diags) > 0 {
				return fmt.Errorf("%d problem(s) found", len(diags))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rule(s) ok\n", len(ruleSet))
			return nil
		},
	}
}

func lintRules(ruleSet []rules.Rule, registry *strategies.Registry) []rules.Diagnostic {
	known := make(map[string]bool, len(ruleSet))
	for _, rule := range ruleSet {
		known[rule.ID] = true
	}
	registered := make(map[string]bool)
	for _, name := range registry.ValidationNames() {
		registered[name] = true
	}

	var diags []rules.Diagnostic
	for _, rule := range ruleSet {
		for _, entry := range rule.Validations {
			ref := strategies.ParseRef(entry.Ref)
			if ref.Strategy != strategies.CompositeName && !registered[ref.Strategy] {
				diags = append(diags, rules.Diagnostic{
					Identifier: rule.ID,
					Code:       errors.ErrStrategyNotFound,
					Message:    fmt.Sprintf("validation %q references unknown strategy %q", entry.ID, ref.Strategy),
				})
			}
		}
		for _, inc := range rule.Includes {
			if !known[inc] {
				diags = append(diags, rules.Diagnostic{
					Identifier: rule.ID,
					Code:       errors.ErrNotFound,
					Message:    fmt.Sprintf("includes unknown rule %q", inc),
				})
			}
		}
	}
	return diags
}
