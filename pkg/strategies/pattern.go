package strategies

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

// PatternName is the name used to reference the pattern strategy
const PatternName = "pattern"

// Pattern validates content against a regular expression.
//
// Parameters: pattern (the expression), mode ("forbid" flags every
// match, "require" flags content with no match), replace (optional
// replacement making forbidden matches auto-fixable), message, severity.
type Pattern struct {
	RangeTransform

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

func (s *Pattern) compile(expr string) (*regexp.Regexp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if re, ok := s.cache[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStrategyExecute, "invalid pattern %q", expr)
	}
	if s.cache == nil {
		s.cache = make(map[string]*regexp.Regexp)
	}
	s.cache[expr] = re
	return re, nil
}

// Validate runs the configured expression over the content
func (s *Pattern) Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error) {
	params := ParseRef(entry.Ref).MergedParams(entry)
	expr := ParamString(params, "pattern", "")
	if expr == "" {
		return nil, errors.Newf(errors.ErrStrategyExecute, "pattern entry %q has no pattern parameter", entry.ID)
	}

	re, err := s.compile(expr)
	if err != nil {
		return nil, err
	}

	mode := ParamString(params, "mode", "forbid")
	severity := ParamSeverity(params)
	message := ParamString(params, "message", "")

	switch mode {
	case "require":
		if re.Match(vctx.Content) {
			return nil, nil
		}
		if message == "" {
			message = fmt.Sprintf("content does not match required pattern %q", expr)
		}
		return []Issue{{
			RuleID:       rule.ID,
			ValidationID: entry.ID,
			Severity:     severity,
			Location:     Location{File: vctx.File},
			Message:      message,
		}}, nil

	case "forbid":
		var issues []Issue
		for _, loc := range re.FindAllIndex(vctx.Content, -1) {
			start, end := loc[0], loc[1]
			line, col := lineCol(vctx.Content, start)
			matched := string(vctx.Content[start:end])

			msg := message
			if msg == "" {
				msg = fmt.Sprintf("forbidden pattern %q matched %q", expr, matched)
			}

			data := map[string]interface{}{
				DataStart:    start,
				DataEnd:      end,
				DataExpected: matched,
			}
			if replace, ok := params["replace"]; ok {
				data[DataReplacement] = fmt.Sprintf("%v", replace)
			}

			issues = append(issues, Issue{
				RuleID:       rule.ID,
				ValidationID: entry.ID,
				Severity:     severity,
				Location:     Location{File: vctx.File, Line: line, Col: col},
				Message:      msg,
				Data:         data,
			})
		}
		return issues, nil

	default:
		return nil, errors.Newf(errors.ErrStrategyExecute, "pattern entry %q has unknown mode %q", entry.ID, mode)
	}
}

// Resolve builds a range patch for forbidden matches with a configured
// replacement
func (s *Pattern) Resolve(req ResolveRequest) (*Resolution, error) {
	return resolveFromIssueData(PatternName, req)
}
