package strategies

import (
	"fmt"

	"github.com/ruleweave/ruleweave/pkg/rules"
)

// LengthName is the name used to reference the length strategy
const LengthName = "length"

// Length validates content or per-line length bounds.
//
// Parameters: max, min (bounds), unit ("char" for whole-content length,
// "line" for per-line length), severity.
type Length struct{}

// Validate checks the configured length bounds
func (s *Length) Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error) {
	params := ParseRef(entry.Ref).MergedParams(entry)
	max := ParamInt(params, "max", 0)
	min := ParamInt(params, "min", 0)
	unit := ParamString(params, "unit", "char")
	severity := ParamSeverity(params)

	var issues []Issue

	switch unit {
	case "line":
		for i, line := range vctx.Lines() {
			if max > 0 && len(line) > max {
				issues = append(issues, Issue{
					RuleID:       rule.ID,
					ValidationID: entry.ID,
					Severity:     severity,
					Location:     Location{File: vctx.File, Line: i + 1},
					Message:      fmt.Sprintf("line is %d characters, maximum is %d", len(line), max),
				})
			}
		}
	default:
		n := len(vctx.Content)
		if max > 0 && n > max {
			issues = append(issues, Issue{
				RuleID:       rule.ID,
				ValidationID: entry.ID,
				Severity:     severity,
				Location:     Location{File: vctx.File},
				Message:      fmt.Sprintf("content is %d characters, maximum is %d", n, max),
			})
		}
		if min > 0 && n < min {
			issues = append(issues, Issue{
				RuleID:       rule.ID,
				ValidationID: entry.ID,
				Severity:     severity,
				Location:     Location{File: vctx.File},
				Message:      fmt.Sprintf("content is %d characters, minimum is %d", n, min),
			})
		}
	}

	return issues, nil
}
