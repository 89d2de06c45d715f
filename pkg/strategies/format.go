package strategies

import (
	"fmt"
	"strings"

	"github.com/ruleweave/ruleweave/pkg/rules"
)

// FormatName is the name used to reference the format strategy
const FormatName = "format"

// Format validates whitespace hygiene: trailing whitespace on lines and
// a missing final newline. Both findings carry replacements, so they
// are automatically fixable.
//
// Parameters: trailing (default true), finalNewline (default true),
// severity.
type Format struct {
	RangeTransform
}

// Validate reports trailing whitespace and missing final newline
func (s *Format) Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error) {
	params := ParseRef(entry.Ref).MergedParams(entry)
	checkTrailing := ParamBool(params, "trailing", true)
	checkFinal := ParamBool(params, "finalNewline", true)
	severity := ParamSeverity(params)

	var issues []Issue

	if checkTrailing {
		offset := 0
		for i, line := range vctx.Lines() {
			trimmed := strings.TrimRight(line, " \t")
			if len(trimmed) < len(line) {
				issues = append(issues, Issue{
					RuleID:       rule.ID,
					ValidationID: entry.ID,
					Severity:     severity,
					Location:     Location{File: vctx.File, Line: i + 1, Col: len(trimmed) + 1},
					Message:      fmt.Sprintf("line %d has trailing whitespace", i+1),
					Data: map[string]interface{}{
						DataStart:       offset + len(trimmed),
						DataEnd:         offset + len(line),
						DataExpected:    line[len(trimmed):],
						DataReplacement: "",
					},
				})
			}
			offset += len(line) + 1
		}
	}

	if checkFinal && len(vctx.Content) > 0 && vctx.Content[len(vctx.Content)-1] != '\n' {
		issues = append(issues, Issue{
			RuleID:       rule.ID,
			ValidationID: entry.ID,
			Severity:     severity,
			Location:     Location{File: vctx.File, Line: len(vctx.Lines())},
			Message:      "file does not end with a newline",
			Data: map[string]interface{}{
				DataStart:       len(vctx.Content),
				DataEnd:         len(vctx.Content),
				DataExpected:    "",
				DataReplacement: "\n",
			},
		})
	}

	return issues, nil
}

// Resolve builds range patches from the offsets recorded at validation time
func (s *Format) Resolve(req ResolveRequest) (*Resolution, error) {
	return resolveFromIssueData(FormatName, req)
}
