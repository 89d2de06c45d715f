package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweave/ruleweave/pkg/fix"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/strategies"
	"github.com/ruleweave/ruleweave/pkg/validate"
)

func newPipeline() (*validate.Dispatcher, *fix.Generator) {
	reg := strategies.NewRegistry()
	return validate.NewDispatcher(reg), fix.NewGenerator(reg)
}

func formatRule(id string) rules.Rule {
	return rules.Rule{
		ID:          id,
		Globs:       []string{"**/*.md"},
		Validations: []rules.ValidationEntry{{ID: "fmt", Ref: "format"}},
	}
}

func TestApplyFixesAllFormatIssues(t *testing.T) {
	d, g := newPipeline()
	ruleSet := []rules.Rule{formatRule("whitespace")}
	content := []byte("title   \nbody  \nlast line")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	require.Len(t, result.Issues, 3) // two trailing, one missing newline

	report := g.Apply(ruleSet, "a.md", content, result.Issues)

	assert.Equal(t, "title\nbody\nlast line\n", string(report.Content))
	assert.Len(t, report.Applied, 3)
	assert.Empty(t, report.Unresolved)
	assert.Equal(t, []string{"a.md"}, report.ModifiedFiles)
	assert.True(t, report.Changed())
	assert.NotEmpty(t, report.Diff)
	assert.Contains(t, report.Diff, "-title   ")
	assert.Contains(t, report.Diff, "+title")
}

func TestApplyIsIdempotent(t *testing.T) {
	d, g := newPipeline()
	ruleSet := []rules.Rule{formatRule("whitespace")}
	content := []byte("dirty   \nmore  ")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	report := g.Apply(ruleSet, "a.md", content, result.Issues)

	// A second validation over the fixed content finds nothing
	again := d.Content(ruleSet, validate.Request{File: "a.md", Content: report.Content})
	assert.Empty(t, again.Issues)

	rerun := g.Apply(ruleSet, "a.md", report.Content, again.Issues)
	assert.Equal(t, report.Content, rerun.Content)
	assert.False(t, rerun.Changed())
	assert.Empty(t, rerun.Diff)
}

func TestApplyPatternReplacement(t *testing.T) {
	d, g := newPipeline()
	ruleSet := []rules.Rule{{
		ID:    "spelling",
		Globs: []string{"*.md"},
		Validations: []rules.ValidationEntry{{
			ID:     "colour",
			Ref:    "pattern",
			Params: map[string]interface{}{"pattern": "colour", "replace": "color"},
		}},
	}}
	content := []byte("colour here, colour there")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	require.Len(t, result.Issues, 2)

	report := g.Apply(ruleSet, "a.md", content, result.Issues)
	assert.Equal(t, "color here, color there", string(report.Content))
	assert.Len(t, report.Applied, 2)
	assert.Empty(t, report.Unresolved)
}

func TestApplyUnfixableIssueStaysUnresolved(t *testing.T) {
	d, g := newPipeline()
	ruleSet := []rules.Rule{{
		ID:          "short",
		Globs:       []string{"*.md"},
		Validations: []rules.ValidationEntry{{ID: "len", Ref: "length:max=5"}},
	}}
	content := []byte("way too long for the limit")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	require.Len(t, result.Issues, 1)

	report := g.Apply(ruleSet, "a.md", content, result.Issues)
	assert.Equal(t, content, report.Content)
	assert.Empty(t, report.Applied)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, result.Issues[0], report.Unresolved[0])
	assert.False(t, report.Changed())
	assert.Empty(t, report.Diff)
}

func TestApplyStaleOffsetsStayUnresolved(t *testing.T) {
	_, g := newPipeline()
	ruleSet := []rules.Rule{formatRule("whitespace")}

	// Issue recorded against content that has since changed
	stale := strategies.Issue{
		RuleID:       "whitespace",
		ValidationID: "fmt",
		Data: map[string]interface{}{
			strategies.DataStart:       5,
			strategies.DataEnd:         8,
			strategies.DataExpected:    "   ",
			strategies.DataReplacement: "",
		},
	}

	report := g.Apply(ruleSet, "a.md", []byte("fresh content"), []strategies.Issue{stale})
	assert.Empty(t, report.Applied)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "fresh content", string(report.Content))
}

func TestApplyUnknownRuleStaysUnresolved(t *testing.T) {
	_, g := newPipeline()

	orphan := strategies.Issue{RuleID: "ghost", ValidationID: "v1", Message: "no such rule"}
	report := g.Apply(nil, "a.md", []byte("content"), []strategies.Issue{orphan})

	assert.Empty(t, report.Applied)
	require.Len(t, report.Unresolved, 1)
	assert.Len(t, report.Issues, 1)
}

func TestApplyProcessesRulesInOrder(t *testing.T) {
	d, g := newPipeline()
	ruleSet := []rules.Rule{
		{
			ID:    "z-late",
			Globs: []string{"*.md"},
			Validations: []rules.ValidationEntry{{
				ID:     "v",
				Ref:    "pattern",
				Params: map[string]interface{}{"pattern": "mid", "replace": "END"},
			}},
		},
		{
			ID:    "a-early",
			Globs: []string{"*.md"},
			Validations: []rules.ValidationEntry{{
				ID:     "v",
				Ref:    "pattern",
				Params: map[string]interface{}{"pattern": "start", "replace": "mid"},
			}},
		},
	}
	content := []byte("start of text")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	require.Len(t, result.Issues, 1) // only "start" matches the original

	report := g.Apply(ruleSet, "a.md", content, result.Issues)
	require.Len(t, report.Applied, 1)
	assert.Equal(t, "a-early", report.Applied[0].RuleID)
	assert.Equal(t, "mid of text", string(report.Content))
}

func TestApplyMixedEntriesBottomUp(t *testing.T) {
	d, g := newPipeline()
	// An offsetless length issue sits between two offset-bearing ones;
	// the later patch must still apply before the earlier one.
	ruleSet := []rules.Rule{{
		ID:    "style",
		Globs: []string{"*.md"},
		Validations: []rules.ValidationEntry{
			{
				ID:     "spelling",
				Ref:    "pattern",
				Params: map[string]interface{}{"pattern": "colour", "replace": "color"},
			},
			{ID: "short", Ref: "length:max=1"},
			{ID: "fmt", Ref: "format"},
		},
	}}
	content := []byte("colour makes this line long")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	require.Len(t, result.Issues, 3) // replacement, length, missing newline

	report := g.Apply(ruleSet, "a.md", content, result.Issues)

	assert.Equal(t, "color makes this line long\n", string(report.Content))
	assert.Len(t, report.Applied, 2)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "short", report.Unresolved[0].ValidationID)
}

func TestApplyResolutionMetadata(t *testing.T) {
	d, g := newPipeline()
	ruleSet := []rules.Rule{formatRule("whitespace")}
	content := []byte("dirty   \n")

	result := d.Content(ruleSet, validate.Request{File: "a.md", Content: content})
	report := g.Apply(ruleSet, "a.md", content, result.Issues)

	require.Len(t, report.Applied, 1)
	res := report.Applied[0]
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "whitespace", res.RuleID)
	assert.Equal(t, strategies.FormatName, res.Strategy)
	assert.Equal(t, 0, res.IssueIndex)
}
