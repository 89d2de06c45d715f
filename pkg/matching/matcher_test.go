package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweave/ruleweave/pkg/matching"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

func TestScoreAlwaysApply(t *testing.T) {
	rule := rules.Rule{ID: "r1", AlwaysApply: true}

	assert.Equal(t, 1.0, matching.Score(rule, nil))
	assert.Equal(t, 1.0, matching.Score(rule, matching.Context{"technologies": {"go"}}))
}

func TestScoreNoConditions(t *testing.T) {
	// Applying universally must be explicit: no conditions and no
	// alwaysApply means the rule never matches a context
	rule := rules.Rule{ID: "r1"}

	assert.Equal(t, 0.0, matching.Score(rule, matching.Context{"technologies": {"go"}}))
}

func TestScoreFraction(t *testing.T) {
	rule := rules.Rule{
		ID: "r1",
		Conditions: rules.Conditions{
			Technologies: []string{"typescript", "react"},
		},
	}

	ctx := matching.Context{"technologies": {"typescript"}}
	assert.InDelta(t, 0.5, matching.Score(rule, ctx), 1e-9)

	ctx = matching.Context{"technologies": {"typescript", "react", "node"}}
	assert.Equal(t, 1.0, matching.Score(rule, ctx))

	assert.Equal(t, 0.0, matching.Score(rule, matching.Context{}))
}

func TestScoreMeanAcrossCategories(t *testing.T) {
	rule := rules.Rule{
		ID: "r1",
		Conditions: rules.Conditions{
			Technologies: []string{"go"},
			Phase:        []string{"dev", "ci"},
		},
	}

	ctx := matching.Context{
		"technologies": {"go"},
		"phase":        {"dev"},
	}
	// technologies contributes 1.0, phase contributes 0.5
	assert.InDelta(t, 0.75, matching.Score(rule, ctx), 1e-9)
}

func TestScoreEmptyDeclaredCategory(t *testing.T) {
	rule := rules.Rule{
		ID: "r1",
		Conditions: rules.Conditions{
			Technologies: []string{},
		},
	}

	// An empty declared category always satisfies
	assert.Equal(t, 1.0, matching.Score(rule, matching.Context{}))
}

func TestScoreBounds(t *testing.T) {
	ruleSet := []rules.Rule{
		{ID: "a", AlwaysApply: true},
		{ID: "b", Conditions: rules.Conditions{Phase: []string{"dev"}}},
		{ID: "c", Conditions: rules.Conditions{
			Phase:        []string{"dev", "prod"},
			Technologies: []string{"go", "rust", "zig"},
		}},
	}
	ctx := matching.Context{"phase": {"dev"}, "technologies": {"go"}}

	for _, rule := range ruleSet {
		score := matching.Score(rule, ctx)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestForContextOrdering(t *testing.T) {
	m := matching.NewMatcher()

	ruleSet := []rules.Rule{
		{ID: "zeta", Conditions: rules.Conditions{Technologies: []string{"go"}}},
		{ID: "alpha", Conditions: rules.Conditions{Technologies: []string{"go"}}},
		{ID: "specific", Conditions: rules.Conditions{
			Technologies: []string{"go"},
			Phase:        []string{"dev"},
		}},
		{ID: "excluded"},
		{ID: "partial", Conditions: rules.Conditions{Technologies: []string{"go", "rust"}}},
	}
	ctx := matching.Context{"technologies": {"go"}, "phase": {"dev"}}

	results := m.ForContext(ruleSet, ctx)
	require.Len(t, results, 4)

	// Score 1.0 with two declared categories ranks above score 1.0 with
	// one; equal score and specificity break on id
	assert.Equal(t, "specific", results[0].Rule.ID)
	assert.Equal(t, "alpha", results[1].Rule.ID)
	assert.Equal(t, "zeta", results[2].Rule.ID)
	assert.Equal(t, "partial", results[3].Rule.ID)
	assert.InDelta(t, 0.5, results[3].Score, 1e-9)
}

func TestForContextDeterministic(t *testing.T) {
	m := matching.NewMatcher()

	ruleSet := []rules.Rule{
		{ID: "b", Conditions: rules.Conditions{Technologies: []string{"go"}}},
		{ID: "a", Conditions: rules.Conditions{Technologies: []string{"go"}}},
		{ID: "c", AlwaysApply: true},
	}
	ctx := matching.Context{"technologies": {"go"}}

	first := m.ForContext(ruleSet, ctx)
	second := m.ForContext(ruleSet, ctx)
	assert.Equal(t, first, second)
}

func TestAppliesGlobs(t *testing.T) {
	tests := []struct {
		name     string
		glob     string
		path     string
		expected bool
	}{
		{"doublestar matches nested", "**/*.ts", "src/a/b.ts", true},
		{"doublestar matches top level", "**/*.ts", "a.ts", true},
		{"single star is one segment", "*.ts", "a.ts", true},
		{"single star does not cross segments", "*.ts", "src/a.ts", false},
		{"question mark", "a?.md", "ab.md", true},
		{"question mark one char only", "a?.md", "abc.md", false},
		{"character class", "[ab].md", "a.md", true},
		{"character class non-member", "[ab].md", "c.md", false},
		{"case sensitive", "*.MD", "readme.md", false},
		{"anchored to full path", "a/*.md", "x/a/b.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := rules.Rule{ID: "r", Globs: []string{tt.glob}}
			assert.Equal(t, tt.expected, matching.Applies(rule, tt.path))
		})
	}
}

func TestAppliesAlwaysApply(t *testing.T) {
	rule := rules.Rule{ID: "r", AlwaysApply: true}
	assert.True(t, matching.Applies(rule, "anything/at/all.txt"))
}

func TestAppliesAnyGlob(t *testing.T) {
	rule := rules.Rule{ID: "r", Globs: []string{"*.go", "*.md"}}
	assert.True(t, matching.Applies(rule, "readme.md"))
	assert.False(t, matching.Applies(rule, "main.rs"))
}

func TestForFile(t *testing.T) {
	m := matching.NewMatcher()

	ruleSet := []rules.Rule{
		{ID: "md", Globs: []string{"*.md"}},
		{ID: "ts", Globs: []string{"**/*.ts"}},
		{ID: "all", AlwaysApply: true},
	}

	applicable := m.ForFile(ruleSet, "readme.md")
	require.Len(t, applicable, 2)
	assert.Equal(t, "md", applicable[0].ID)
	assert.Equal(t, "all", applicable[1].ID)
}

func TestContextAccessors(t *testing.T) {
	ctx := matching.Context{
		"phase":        {"dev"},
		"technologies": {"go", "typescript"},
		"project_type": {"cli"},
	}

	assert.Equal(t, []string{"dev"}, ctx.Phase())
	assert.Equal(t, []string{"go", "typescript"}, ctx.Technologies())
	assert.Equal(t, []string{"cli"}, ctx.ProjectType())
	assert.True(t, ctx.Has("technologies", "go"))
	assert.False(t, ctx.Has("technologies", "rust"))
	assert.Nil(t, matching.Context(nil).Values("phase"))
}
