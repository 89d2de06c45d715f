package strategies

import (
	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/registry"
)

// CompositeName is the strategy every unknown reference falls back to
const CompositeName = "composite"

// Registry holds the named validation and transformation strategies.
// Built-ins are registered at construction; custom strategies register
// through the same interface, no special-casing needed.
type Registry struct {
	validators   registry.Registry[Validator]
	transformers registry.Registry[Transformer]
	logger       zerolog.Logger
}

// NewRegistry creates a strategy registry with all built-in strategies
// registered
func NewRegistry() *Registry {
	r := &Registry{
		validators:   registry.New[Validator](),
		transformers: registry.New[Transformer](),
		logger:       logging.GetLogger("strategies.registry"),
	}

	composite := &Composite{reg: r}
	registry.MustRegister(r.validators, CompositeName, Validator(composite))
	registry.MustRegister(r.transformers, CompositeName, Transformer(composite))

	length := &Length{}
	registry.MustRegister(r.validators, LengthName, Validator(length))

	pattern := &Pattern{}
	registry.MustRegister(r.validators, PatternName, Validator(pattern))
	registry.MustRegister(r.transformers, PatternName, Transformer(pattern))

	format := &Format{}
	registry.MustRegister(r.validators, FormatName, Validator(format))
	registry.MustRegister(r.transformers, FormatName, Transformer(format))

	mdlink := &MarkdownLinks{}
	registry.MustRegister(r.validators, MarkdownLinksName, Validator(mdlink))
	registry.MustRegister(r.transformers, MarkdownLinksName, Transformer(mdlink))

	registry.MustRegister(r.validators, CELName, Validator(NewCEL()))

	return r
}

// RegisterValidation adds or replaces a named validation strategy
func (r *Registry) RegisterValidation(name string, v Validator) error {
	return r.validators.Replace(name, v)
}

// RegisterTransformation adds or replaces a named transformation strategy
func (r *Registry) RegisterTransformation(name string, t Transformer) error {
	return r.transformers.Replace(name, t)
}

// Validation returns the validation strategy for name, falling back to
// composite when the name is unknown
func (r *Registry) Validation(name string) Validator {
	v, err := r.validators.Get(name)
	if err != nil {
		r.logger.Debug().Str("strategy", name).Msg("Unknown validation strategy, falling back to composite")
		v, _ = r.validators.Get(CompositeName)
	}
	return v
}

// Transformation returns the transformation strategy for name, falling
// back to composite when the name is unknown
func (r *Registry) Transformation(name string) Transformer {
	t, err := r.transformers.Get(name)
	if err != nil {
		r.logger.Debug().Str("strategy", name).Msg("Unknown transformation strategy, falling back to composite")
		t, _ = r.transformers.Get(CompositeName)
	}
	return t
}

// LookupValidation is the strict form of Validation, used by composite
// for its sub-strategies: unknown names are a STRATEGY_NOT_FOUND error
func (r *Registry) LookupValidation(name string) (Validator, error) {
	v, err := r.validators.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrStrategyNotFound, "validation strategy %q not registered", name)
	}
	return v, nil
}

// LookupTransformation is the strict form of Transformation
func (r *Registry) LookupTransformation(name string) (Transformer, error) {
	t, err := r.transformers.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrStrategyNotFound, "transformation strategy %q not registered", name)
	}
	return t, nil
}

// ValidationNames returns the registered validation strategy names
func (r *Registry) ValidationNames() []string {
	return r.validators.List()
}

// TransformationNames returns the registered transformation strategy names
func (r *Registry) TransformationNames() []string {
	return r.transformers.List()
}
