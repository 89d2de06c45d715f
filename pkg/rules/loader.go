package rules

import (
	"context"
	"path"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/logging"
)

// Diagnostic records a per-rule problem encountered during a lenient load
type Diagnostic struct {
	// Identifier of the offending rule file
	Identifier string

	// Code classifies the problem
	Code errors.ErrorCode

	// Message is the human-readable description
	Message string
}

// Loader reads rules from a Source, validates them against the rule
// schema, and caches them by id.
//
// The cache is a copy-on-write snapshot swapped atomically, so reads
// never take a lock. Loads and writes are serialized by a single-writer
// mutex.
type Loader struct {
	source Source
	dir    string
	strict bool
	schema *Schema
	logger zerolog.Logger

	mu    sync.Mutex
	cache atomic.Pointer[snapshot]
}

type snapshot struct {
	rules map[string]Rule
	order []string
	diags []Diagnostic
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithStrict makes the loader abort the whole load on the first rule
// that fails schema validation
func WithStrict(strict bool) LoaderOption {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithSchema overrides the rule schema used for validation
func WithSchema(schema *Schema) LoaderOption {
	return func(l *Loader) {
		l.schema = schema
	}
}

// NewLoader creates a loader reading rules from dir via the given source
func NewLoader(source Source, dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		dir:    dir,
		logger: logging.GetLogger("rules.loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.schema == nil {
		l.schema = MustSchema()
	}
	return l
}

// LoadAll returns every valid rule, ordered by id. The rule set is
// cached; subsequent calls are served from the cache until ClearCache.
// In lenient mode, invalid rules are skipped and reported through the
// returned diagnostics. In strict mode the first schema failure aborts
// the load.
func (l *Loader) LoadAll(ctx context.Context) ([]Rule, []Diagnostic, error) {
	snap := l.cache.Load()
	if snap == nil {
		var err error
		snap, err = l.load(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	out := make([]Rule, 0, len(snap.order))
	for _, id := range snap.order {
		out = append(out, snap.rules[id])
	}
	return out, snap.diags, nil
}

// Get returns the rule with the given id, loading the rule set first if
// the cache is cold
func (l *Loader) Get(ctx context.Context, id string) (Rule, error) {
	snap := l.cache.Load()
	if snap == nil {
		var err error
		snap, err = l.load(ctx)
		if err != nil {
			return Rule{}, err
		}
	}

	rule, ok := snap.rules[id]
	if !ok {
		return Rule{}, errors.Newf(errors.ErrNotFound, "rule %q not found", id)
	}
	return rule, nil
}

// Add serializes the rule, writes it through the source, and updates the
// cache snapshot
func (l *Loader) Add(ctx context.Context, rule Rule) error {
	if rule.ID == "" {
		return errors.New(errors.ErrInvalidInput, "rule id cannot be empty")
	}

	data, err := Serialize(rule)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	identifier := path.Join(l.dir, rule.ID+".mdc")
	if err := l.source.Write(ctx, identifier, data); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write rule %q", rule.ID)
	}

	old := l.cache.Load()
	if old == nil {
		// Cache is cold; the next read will pick the rule up from the source
		return nil
	}

	next := &snapshot{
		rules: make(map[string]Rule, len(old.rules)+1),
		diags: old.diags,
	}
	for id, r := range old.rules {
		next.rules[id] = r
	}
	next.rules[rule.ID] = rule
	next.order = sortedIDs(next.rules)
	l.cache.Store(next)

	l.logger.Debug().Str("rule", rule.ID).Msg("Rule added")
	return nil
}

// ClearCache drops the cached rule set, forcing a re-parse on next access
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Store(nil)
	l.logger.Debug().Msg("Rule cache cleared")
}

func (l *Loader) load(ctx context.Context) (*snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have populated the cache while we waited
	if snap := l.cache.Load(); snap != nil {
		return snap, nil
	}

	done := logging.LogOperationStart(l.logger, "load-rules")
	defer done()

	identifiers, err := l.source.List(ctx, l.dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot list rules in %q", l.dir)
	}
	sort.Strings(identifiers)

	snap := &snapshot{rules: make(map[string]Rule, len(identifiers))}

	for _, identifier := range identifiers {
		rule, err := l.loadOne(ctx, identifier)
		if err != nil {
			if l.strict {
				return nil, err
			}
			snap.diags = append(snap.diags, Diagnostic{
				Identifier: identifier,
				Code:       errors.GetErrorCode(err),
				Message:    err.Error(),
			})
			l.logger.Warn().
				Str("identifier", identifier).
				Err(err).
				Msg("Skipping invalid rule")
			continue
		}

		if _, exists := snap.rules[rule.ID]; exists {
			if l.strict {
				return nil, errors.Newf(errors.ErrSchema, "duplicate rule id %q in %q", rule.ID, identifier)
			}
			snap.diags = append(snap.diags, Diagnostic{
				Identifier: identifier,
				Code:       errors.ErrSchema,
				Message:    "duplicate rule id " + rule.ID + ", overwriting earlier definition",
			})
		}
		snap.rules[rule.ID] = rule
	}

	snap.order = sortedIDs(snap.rules)
	l.cache.Store(snap)

	l.logger.Info().
		Int("rules", len(snap.rules)).
		Int("skipped", len(snap.diags)).
		Msg("Rules loaded")

	return snap, nil
}

func (l *Loader) loadOne(ctx context.Context, identifier string) (Rule, error) {
	data, err := l.source.Read(ctx, identifier)
	if err != nil {
		return Rule{}, errors.Wrapf(err, errors.ErrIO, "cannot read rule %q", identifier)
	}

	rule, raw, err := Parse(data)
	if err != nil {
		return Rule{}, err
	}

	if err := l.schema.Validate(raw); err != nil {
		return Rule{}, err
	}

	return rule, nil
}

func sortedIDs(rules map[string]Rule) []string {
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
