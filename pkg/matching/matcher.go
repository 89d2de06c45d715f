package matching

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

// MatchResult pairs a rule with its computed applicability score for a
// given context. Scores are always in [0, 1].
type MatchResult struct {
	Rule  rules.Rule
	Score float64
}

// Matcher scores and ranks rules against a runtime context or a file path
type Matcher struct {
	logger zerolog.Logger
}

// NewMatcher creates a new context matcher
func NewMatcher() *Matcher {
	return &Matcher{
		logger: logging.GetLogger("matching"),
	}
}

// ForContext scores every rule against the context and returns the
// matches ordered by score descending. Ties break on declared
// condition-category count descending, then rule id ascending, so the
// ordering is deterministic. Rules scoring 0 are excluded.
func (m *Matcher) ForContext(ruleSet []rules.Rule, ctx Context) []MatchResult {
	var results []MatchResult
	for _, rule := range ruleSet {
		score := Score(rule, ctx)
		if score <= 0 {
			continue
		}
		results = append(results, MatchResult{Rule: rule, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		di := results[i].Rule.Conditions.DeclaredCategories()
		dj := results[j].Rule.Conditions.DeclaredCategories()
		if di != dj {
			return di > dj
		}
		return results[i].Rule.ID < results[j].Rule.ID
	})

	m.logger.Debug().
		Int("rules", len(ruleSet)).
		Int("matched", len(results)).
		Msg("Context matching complete")

	return results
}

// ForFile returns the rules applicable to a file path: any rule with a
// matching glob, or with alwaysApply set
func (m *Matcher) ForFile(ruleSet []rules.Rule, filePath string) []rules.Rule {
	var applicable []rules.Rule
	for _, rule := range ruleSet {
		if Applies(rule, filePath) {
			applicable = append(applicable, rule)
		}
	}

	m.logger.Debug().
		Str("file", filePath).
		Int("applicable", len(applicable)).
		Msg("File matching complete")

	return applicable
}

// Score computes a rule's applicability score for a context.
//
// Rules with alwaysApply score 1.0 unconditionally. Otherwise, each
// declared condition category contributes the fraction of its values
// present in the context (an empty declared category contributes 1.0),
// and the score is the mean across declared categories. A rule with no
// declared categories scores 0: applying universally must be explicit.
func Score(rule rules.Rule, ctx Context) float64 {
	if rule.AlwaysApply {
		return 1.0
	}

	declared := rule.Conditions.Declared()
	if len(declared) == 0 {
		return 0
	}

	var total float64
	for _, cond := range declared {
		total += categoryScore(cond, ctx)
	}
	return total / float64(len(declared))
}

func categoryScore(cond rules.DeclaredCondition, ctx Context) float64 {
	if len(cond.Values) == 0 {
		return 1.0
	}

	have := make(map[string]bool)
	for _, v := range ctx.Values(cond.Category) {
		have[v] = true
	}

	matched := 0
	for _, v := range cond.Values {
		if have[v] {
			matched++
		}
	}
	return float64(matched) / float64(len(cond.Values))
}

// Applies reports whether a rule applies to a file path. Matching uses
// full glob semantics: `*` matches within one path segment, `**` across
// segments, `?` one character, and `[...]` character classes. Matching
// is case-sensitive and anchored to the whole relative path.
func Applies(rule rules.Rule, filePath string) bool {
	if rule.AlwaysApply {
		return true
	}

	for _, glob := range rule.Globs {
		matched, err := doublestar.Match(glob, filePath)
		if err != nil {
			// Malformed pattern; treat as non-matching
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
