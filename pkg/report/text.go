package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ruleweave/ruleweave/pkg/fix"
	"github.com/ruleweave/ruleweave/pkg/generate"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/strategies"
	"github.com/ruleweave/ruleweave/pkg/validate"
)

// ConfigureColor applies the configured color mode ("auto", "always",
// "never") for output going to f
func ConfigureColor(mode string, f *os.File) {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	default:
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

// TextRenderer writes human-readable output
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer creates a text renderer writing to w
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// ValidationResult renders one file's validation outcome
func (r *TextRenderer) ValidationResult(result validate.Result) {
	if len(result.Issues) == 0 && len(result.Errors) == 0 {
		fmt.Fprintf(r.w, "%s %s\n", styleSuccess.Render("ok"), stylePath.Render(result.File))
		return
	}

	fmt.Fprintln(r.w, stylePath.Render(result.File))
	for _, issue := range result.Issues {
		loc := ""
		if issue.Location.Line > 0 {
			loc = fmt.Sprintf("%d:%d", issue.Location.Line, issue.Location.Col)
		}
		fmt.Fprintf(r.w, "  %-8s %-8s %s %s\n",
			styleMuted.Render(loc),
			severityStyle(issue.Severity).Render(string(issue.Severity)),
			issue.Message,
			styleMuted.Render("("+issue.RuleID+"/"+issue.ValidationID+")"))
	}
	for _, entryErr := range result.Errors {
		fmt.Fprintf(r.w, "  %s %s %s\n",
			styleError.Render("error"),
			entryErr.Message,
			styleMuted.Render("("+entryErr.RuleID+"/"+entryErr.ValidationID+")"))
	}

	counts := result.SeverityCounts()
	fmt.Fprintf(r.w, "  %s\n", styleMuted.Render(fmt.Sprintf(
		"%d error(s), %d warning(s), %d info in %s",
		counts[strategies.SeverityError],
		counts[strategies.SeverityWarning],
		counts[strategies.SeverityInfo],
		result.Elapsed.Round(time.Microsecond))))
}

// FixReport renders a fix run, including the unified diff when content
// changed
func (r *TextRenderer) FixReport(report fix.Report) {
	fmt.Fprintln(r.w, stylePath.Render(report.File))
	fmt.Fprintf(r.w, "  %s applied, %s unresolved\n",
		styleSuccess.Render(fmt.Sprintf("%d", len(report.Applied))),
		styleWarning.Render(fmt.Sprintf("%d", len(report.Unresolved))))

	for _, issue := range report.Unresolved {
		fmt.Fprintf(r.w, "  %s %s %s\n",
			styleWarning.Render("unresolved"),
			issue.Message,
			styleMuted.Render("("+issue.RuleID+")"))
	}

	if report.Diff != "" {
		fmt.Fprintln(r.w)
		for _, line := range strings.Split(strings.TrimRight(report.Diff, "\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				fmt.Fprintln(r.w, styleSuccess.Render(line))
			case strings.HasPrefix(line, "-"):
				fmt.Fprintln(r.w, styleError.Render(line))
			default:
				fmt.Fprintln(r.w, styleMuted.Render(line))
			}
		}
	}
}

// Configuration renders a generated configuration as TOML with a
// header naming the contributing rules
func (r *TextRenderer) Configuration(cfg generate.Configuration) error {
	fmt.Fprintf(r.w, "%s\n", styleMuted.Render("# generated from rules: "+strings.Join(cfg.RuleIDs, ", ")))
	data, err := toml.Marshal(cfg.Values)
	if err != nil {
		return err
	}
	_, err = r.w.Write(data)
	return err
}

// RuleList renders a one-line summary per rule
func (r *TextRenderer) RuleList(ruleSet []rules.Rule) {
	for _, rule := range ruleSet {
		summary := rule.Name
		if summary == "" {
			summary = rule.Description
		}
		scope := describeScope(rule)
		fmt.Fprintf(r.w, "%-24s %s %s\n",
			stylePath.Render(rule.ID),
			summary,
			styleMuted.Render(scope))
	}
}

// Diagnostics renders loader and generator diagnostics
func (r *TextRenderer) Diagnostics(diags []rules.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(r.w, "%s %s: %s\n",
			styleWarning.Render("warn"),
			d.Identifier,
			d.Message)
	}
}

func describeScope(rule rules.Rule) string {
	switch {
	case rule.AlwaysApply:
		return "[always]"
	case len(rule.Globs) > 0:
		return "[" + strings.Join(rule.Globs, " ") + "]"
	case rule.Conditions.DeclaredCategories() > 0:
		return "[conditional]"
	default:
		return "[inactive]"
	}
}
