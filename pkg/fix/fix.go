package fix

import (
	"sort"

	"github.com/aymanbagabas/go-udiff"
	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/strategies"
)

// Report is the auditable outcome of one fix run over a file
type Report struct {
	// File the fixes were generated for
	File string `json:"file"`

	// Issues is the full input issue list, untouched
	Issues []strategies.Issue `json:"issues"`

	// Applied holds the resolutions that were applied, in application order
	Applied []strategies.Resolution `json:"appliedResolutions"`

	// Unresolved holds the issues no resolution could fix
	Unresolved []strategies.Issue `json:"unresolved"`

	// ModifiedFiles always contains at least the input file
	ModifiedFiles []string `json:"modifiedFiles"`

	// Content is the file content after all applied resolutions
	Content []byte `json:"-"`

	// Diff is a unified diff from the original to the fixed content;
	// empty when nothing was applied
	Diff string `json:"diff,omitempty"`
}

// Changed reports whether any resolution modified the content
func (r Report) Changed() bool {
	return len(r.Applied) > 0
}

// Generator turns issues into applied fixes
type Generator struct {
	strategies *strategies.Registry
	logger     zerolog.Logger
}

// NewGenerator creates a fix generator backed by the given strategy registry
func NewGenerator(reg *strategies.Registry) *Generator {
	return &Generator{
		strategies: reg,
		logger:     logging.GetLogger("fix"),
	}
}

// Apply resolves and applies fixes for issues against content.
//
// Issues are processed grouped by rule id in ascending order, inside a
// group in input order, each resolution seeing the content as already
// modified by the ones before it. Failures stay inside the report:
// an issue whose strategy produces no resolution, or whose resolution
// no longer applies, lands in Unresolved.
func (g *Generator) Apply(ruleSet []rules.Rule, file string, content []byte, issues []strategies.Issue) Report {
	report := Report{
		File:          file,
		Issues:        issues,
		ModifiedFiles: []string{file},
	}

	entries := indexEntries(ruleSet)
	current := content

	for _, idx := range groupByRule(issues) {
		issue := issues[idx]
		entry, ok := entries[entryKey{issue.RuleID, issue.ValidationID}]
		if !ok {
			g.logger.Debug().
				Str("rule", issue.RuleID).
				Str("validation", issue.ValidationID).
				Msg("Issue has no matching validation entry, leaving unresolved")
			report.Unresolved = append(report.Unresolved, issue)
			continue
		}

		next, res := g.applyOne(entry, issue, idx, current)
		if res == nil {
			report.Unresolved = append(report.Unresolved, issue)
			continue
		}
		current = next
		report.Applied = append(report.Applied, *res)
	}

	report.Content = current
	if report.Changed() {
		report.Diff = udiff.Unified(file, file+" (fixed)", string(content), string(current))
	}

	g.logger.Debug().
		Str("file", file).
		Int("issues", len(issues)).
		Int("applied", len(report.Applied)).
		Int("unresolved", len(report.Unresolved)).
		Msg("Fix run complete")

	return report
}

type ruleEntry struct {
	rule  rules.Rule
	entry rules.ValidationEntry
}

// applyOne resolves and applies a single issue, converting strategy
// panics and apply failures into an unresolved outcome
func (g *Generator) applyOne(re ruleEntry, issue strategies.Issue, issueIndex int, content []byte) (next []byte, res *strategies.Resolution) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn().
				Str("rule", issue.RuleID).
				Str("validation", issue.ValidationID).
				Interface("panic", r).
				Msg("Fix strategy panicked, leaving issue unresolved")
			next, res = nil, nil
		}
	}()

	ref := strategies.ParseRef(re.entry.Ref)
	transformer := g.strategies.Transformation(ref.Strategy)

	resolution, err := transformer.Resolve(strategies.ResolveRequest{
		Rule:       re.rule,
		Entry:      re.entry,
		Params:     ref.MergedParams(re.entry),
		Issue:      issue,
		IssueIndex: issueIndex,
		Content:    content,
	})
	if err != nil || resolution == nil {
		if err != nil {
			g.logger.Debug().
				Str("rule", issue.RuleID).
				Str("validation", issue.ValidationID).
				Err(err).
				Msg("Resolution failed")
		}
		return nil, nil
	}

	fixed, err := transformer.Transform(content, *resolution)
	if err != nil {
		g.logger.Debug().
			Str("rule", issue.RuleID).
			Str("resolution", resolution.ID).
			Err(err).
			Msg("Resolution no longer applies")
		return nil, nil
	}

	return fixed, resolution
}

type entryKey struct {
	ruleID       string
	validationID string
}

func indexEntries(ruleSet []rules.Rule) map[entryKey]ruleEntry {
	index := make(map[entryKey]ruleEntry)
	for _, rule := range ruleSet {
		for _, entry := range rule.Validations {
			index[entryKey{rule.ID, entry.ID}] = ruleEntry{rule: rule, entry: entry}
		}
	}
	return index
}

// groupByRule orders issue indices by rule id ascending. Within a rule,
// issues carrying byte offsets come first and apply bottom-up (highest
// offset first) so earlier patches cannot shift the offsets of the ones
// still to come; offsetless issues follow in their input order.
func groupByRule(issues []strategies.Issue) []int {
	byRule := make(map[string][]int)
	ruleIDs := make([]string, 0, len(issues))
	for i, issue := range issues {
		if _, seen := byRule[issue.RuleID]; !seen {
			ruleIDs = append(ruleIDs, issue.RuleID)
		}
		byRule[issue.RuleID] = append(byRule[issue.RuleID], i)
	}
	sort.Strings(ruleIDs)

	ordered := make([]int, 0, len(issues))
	for _, id := range ruleIDs {
		var offsetting, plain []int
		for _, idx := range byRule[id] {
			if _, ok := issueStart(issues[idx]); ok {
				offsetting = append(offsetting, idx)
			} else {
				plain = append(plain, idx)
			}
		}
		sort.SliceStable(offsetting, func(a, b int) bool {
			sa, _ := issueStart(issues[offsetting[a]])
			sb, _ := issueStart(issues[offsetting[b]])
			return sa > sb
		})
		ordered = append(ordered, offsetting...)
		ordered = append(ordered, plain...)
	}
	return ordered
}

func issueStart(issue strategies.Issue) (int, bool) {
	v, ok := issue.Data[strategies.DataStart]
	if !ok {
		return 0, false
	}
	start, ok := v.(int)
	return start, ok
}
