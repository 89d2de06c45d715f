package engine

import (
	"context"
	"path"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ruleweave/ruleweave/pkg/fix"
	"github.com/ruleweave/ruleweave/pkg/generate"
	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/matching"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/strategies"
	"github.com/ruleweave/ruleweave/pkg/validate"
)

// DefaultConcurrency bounds batch validation when no limit is configured
const DefaultConcurrency = 4

// Engine is the façade over the rule pipeline
type Engine struct {
	loader      *rules.Loader
	registry    *strategies.Registry
	dispatcher  *validate.Dispatcher
	fixer       *fix.Generator
	generator   *generate.Generator
	concurrency int
	logger      zerolog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithConcurrency sets the batch validation worker limit
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRegistry supplies a strategy registry, typically one extended
// with custom strategies
func WithRegistry(reg *strategies.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// New creates an engine over the given rule loader
func New(loader *rules.Loader, opts ...Option) *Engine {
	e := &Engine{
		loader:      loader,
		concurrency: DefaultConcurrency,
		logger:      logging.GetLogger("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = strategies.NewRegistry()
	}
	e.dispatcher = validate.NewDispatcher(e.registry)
	e.fixer = fix.NewGenerator(e.registry)
	e.generator = generate.NewGenerator()
	return e
}

// Loader exposes the engine's rule loader
func (e *Engine) Loader() *rules.Loader {
	return e.loader
}

// Registry exposes the strategy registry for custom registrations
func (e *Engine) Registry() *strategies.Registry {
	return e.registry
}

// ValidateFile validates one file's content against the loaded rules
func (e *Engine) ValidateFile(ctx context.Context, req validate.Request) (validate.Result, []rules.Diagnostic, error) {
	ruleSet, diags, err := e.loader.LoadAll(ctx)
	if err != nil {
		return validate.Result{}, nil, err
	}
	return e.dispatcher.Content(ruleSet, req), diags, nil
}

// FixFile validates one file and applies fixes for the issues found
func (e *Engine) FixFile(ctx context.Context, req validate.Request) (fix.Report, []rules.Diagnostic, error) {
	ruleSet, diags, err := e.loader.LoadAll(ctx)
	if err != nil {
		return fix.Report{}, nil, err
	}

	result := e.dispatcher.Content(ruleSet, req)
	report := e.fixer.Apply(ruleSet, req.File, req.Content, result.Issues)
	return report, diags, nil
}

// GenerateConfig merges the loaded rules matching ctx into one
// configuration
func (e *Engine) GenerateConfig(ctx context.Context, mctx matching.Context, opts generate.Options) (generate.Configuration, []rules.Diagnostic, error) {
	ruleSet, diags, err := e.loader.LoadAll(ctx)
	if err != nil {
		return generate.Configuration{}, nil, err
	}

	cfg, genDiags, err := e.generator.Generate(ruleSet, mctx, opts)
	if err != nil {
		return generate.Configuration{}, nil, err
	}
	return cfg, append(diags, genDiags...), nil
}

// MatchRules ranks the loaded rules against a context
func (e *Engine) MatchRules(ctx context.Context, mctx matching.Context) ([]matching.MatchResult, error) {
	ruleSet, _, err := e.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return matching.NewMatcher().ForContext(ruleSet, mctx), nil
}

// ValidateBatch validates many files in parallel, bounded by the
// configured concurrency. Results come back in input order; per-file
// validation problems live inside each result and never abort the
// batch.
func (e *Engine) ValidateBatch(ctx context.Context, reqs []validate.Request) ([]validate.Result, error) {
	ruleSet, _, err := e.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(e.logger, "validate-batch")
	defer done()

	results := make([]validate.Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.dispatcher.Content(ruleSet, req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FileIndex builds the known-files index link strategies check against:
// every path maps to itself, and each bare file name maps to the
// lexicographically first path carrying it.
func FileIndex(paths []string) map[string]string {
	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	index := make(map[string]string, len(sorted)*2)
	for _, p := range sorted {
		index[p] = p
		base := path.Base(p)
		if _, ok := index[base]; !ok {
			index[base] = p
		}
	}
	return index
}
