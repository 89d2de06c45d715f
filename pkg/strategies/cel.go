package strategies

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

// CELName is the name used to reference the cel strategy
const CELName = "cel"

// CEL validates content with a CEL expression.
//
// The expression comes from the "expression" parameter, or from the
// raw rest of the reference ("cel:size(content) <= 1000"). It must
// return a boolean; false produces one issue.
//
// Variables available to expressions:
//   - content (string): the full file content
//   - path (string): the file path being validated
//   - lines (list<string>): the content split into lines
type CEL struct {
	mu       sync.Mutex
	env      *cel.Env
	programs map[string]cel.Program
}

// NewCEL creates the cel strategy with an empty program cache
func NewCEL() *CEL {
	return &CEL{programs: make(map[string]cel.Program)}
}

func (s *CEL) program(expr string) (cel.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prg, ok := s.programs[expr]; ok {
		return prg, nil
	}

	if s.env == nil {
		env, err := cel.NewEnv(
			cel.Variable("content", cel.StringType),
			cel.Variable("path", cel.StringType),
			cel.Variable("lines", cel.ListType(cel.StringType)),
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStrategyExecute, "create CEL environment")
		}
		s.env = env
	}

	ast, issues := s.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), errors.ErrStrategyExecute, "compile CEL expression %q", expr)
	}

	prg, err := s.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStrategyExecute, "create CEL program for %q", expr)
	}

	s.programs[expr] = prg
	return prg, nil
}

// Validate evaluates the expression against the content
func (s *CEL) Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error) {
	ref := ParseRef(entry.Ref)
	params := ref.MergedParams(entry)

	expr := ParamString(params, "expression", "")
	if expr == "" {
		expr = ref.Rest
	}
	if expr == "" {
		return nil, errors.Newf(errors.ErrStrategyExecute, "cel entry %q has no expression", entry.ID)
	}

	prg, err := s.program(expr)
	if err != nil {
		return nil, err
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"content": string(vctx.Content),
		"path":    vctx.File,
		"lines":   vctx.Lines(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStrategyExecute, "evaluate CEL expression %q", expr)
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return nil, errors.Newf(errors.ErrStrategyExecute, "CEL expression %q did not return a boolean", expr)
	}
	if ok {
		return nil, nil
	}

	message := ParamString(params, "message", "")
	if message == "" {
		message = fmt.Sprintf("expression not satisfied: %s", expr)
	}

	return []Issue{{
		RuleID:       rule.ID,
		ValidationID: entry.ID,
		Severity:     ParamSeverity(params),
		Location:     Location{File: vctx.File},
		Message:      message,
	}}, nil
}
