package generate

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/matching"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

// Configuration is the result of merging matched rules
type Configuration struct {
	// Values is the merged key/value configuration mapping
	Values map[string]interface{} `json:"values"`

	// RuleIDs lists the rules that contributed, in contribution order
	RuleIDs []string `json:"ruleIds"`
}

// Options controls a single generation call
type Options struct {
	// Strict turns unknown include identifiers into errors instead of
	// diagnostics
	Strict bool
}

// Generator merges rule payloads into derived configurations
type Generator struct {
	matcher *matching.Matcher
	logger  zerolog.Logger
}

// NewGenerator creates a config generator
func NewGenerator() *Generator {
	return &Generator{
		matcher: matching.NewMatcher(),
		logger:  logging.GetLogger("generate"),
	}
}

// Generate matches ruleSet against ctx and merges the payloads of every
// positively scored rule, plus their recursively resolved includes,
// into one configuration. Unknown include identifiers become
// diagnostics (or errors in strict mode); cyclic includes abort the
// call.
func (g *Generator) Generate(ruleSet []rules.Rule, ctx matching.Context, opts Options) (Configuration, []rules.Diagnostic, error) {
	done := logging.LogOperationStart(g.logger, "Generate")
	defer done()

	matched := g.matcher.ForContext(ruleSet, ctx)
	g.logger.Debug().
		Int("rules", len(ruleSet)).
		Int("matched", len(matched)).
		Msg("Generating configuration")

	index := make(map[string]rules.Rule, len(ruleSet))
	for _, r := range ruleSet {
		index[r.ID] = r
	}

	res := &resolver{
		index:   index,
		strict:  opts.Strict,
		values:  make(map[string]interface{}),
		visited: make(map[string]bool),
		onStack: make(map[string]bool),
	}

	for _, m := range matched {
		if err := res.resolve(m.Rule.ID); err != nil {
			return Configuration{}, nil, err
		}
	}

	return Configuration{Values: res.values, RuleIDs: res.contributed}, res.diags, nil
}

// resolver walks the include graph of the matched rules depth-first,
// merging payloads as it goes. The stack detects cycles; the visited
// set keeps a rule from contributing twice when several matched rules
// include it.
type resolver struct {
	index  map[string]rules.Rule
	strict bool

	values      map[string]interface{}
	contributed []string
	diags       []rules.Diagnostic

	visited map[string]bool
	stack   []string
	onStack map[string]bool
}

func (r *resolver) resolve(id string) error {
	if r.onStack[id] {
		return cyclicIncludeError(r.stack, id)
	}
	if r.visited[id] {
		return nil
	}

	rule, ok := r.index[id]
	if !ok {
		// Only reachable through an include; matched rules are
		// always in the index
		return nil
	}

	r.visited[id] = true
	r.onStack[id] = true
	r.stack = append(r.stack, id)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, id)
	}()

	r.contributed = append(r.contributed, id)
	mergeInto(r.values, rule.Payload)

	for _, inc := range rule.Includes {
		if _, ok := r.index[inc]; !ok {
			if r.strict {
				return errors.Newf(errors.ErrNotFound,
					"rule %q includes unknown rule %q", id, inc)
			}
			r.diags = append(r.diags, rules.Diagnostic{
				Identifier: id,
				Code:       errors.ErrNotFound,
				Message:    "includes unknown rule " + inc,
			})
			continue
		}
		if err := r.resolve(inc); err != nil {
			return err
		}
	}

	return nil
}

// cyclicIncludeError names the full cycle, from the first occurrence of
// the repeated identifier back to itself
func cyclicIncludeError(stack []string, repeated string) error {
	start := 0
	for i, id := range stack {
		if id == repeated {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, stack[start:]...), repeated)
	return errors.Newf(errors.ErrCyclicInclude,
		"cyclic include chain: %s", strings.Join(cycle, " -> ")).
		WithDetail("cycle", cycle)
}
