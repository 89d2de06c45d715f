package strategies

import (
	stderrors "errors"
	"strings"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/rules"
)

// Composite delegates to the sub-strategies listed in its parameters.
// It is also the fallback for unknown strategy names: a reference whose
// prefix is not registered lands here, and the unknown name surfaces as
// a STRATEGY_NOT_FOUND error scoped to the single validation entry.
type Composite struct {
	reg *Registry
}

// subRefs derives the sub-strategy references for an entry: the
// "strategies" parameter when present, otherwise the entry's own
// reference (the fallback path for unknown strategy names).
func (c *Composite) subRefs(entry rules.ValidationEntry) ([]Ref, error) {
	ref := ParseRef(entry.Ref)
	params := ref.MergedParams(entry)

	names := ParamStrings(params, "strategies")
	if len(names) == 0 && ref.Strategy != CompositeName {
		names = []string{entry.Ref}
	}
	if len(names) == 0 {
		return nil, errors.Newf(errors.ErrStrategyNotFound,
			"composite entry %q names no sub-strategies", entry.ID)
	}

	refs := make([]Ref, 0, len(names))
	for _, name := range names {
		ref := parseSubRef(name)
		if ref.Strategy == CompositeName {
			// Nesting composites would recurse forever
			return nil, errors.Newf(errors.ErrStrategyNotFound,
				"composite entry %q cannot delegate to composite", entry.ID)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// parseSubRef resolves a sub-strategy name literally: a bare name is
// the strategy itself, never a composite fallback
func parseSubRef(name string) Ref {
	if strings.Contains(name, ":") {
		return ParseRef(name)
	}
	return Ref{Strategy: name}
}

// Validate runs every resolvable sub-strategy, concatenating their
// issues. Unresolvable sub-strategies are reported but do not stop the
// remaining ones.
func (c *Composite) Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error) {
	refs, err := c.subRefs(entry)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	var errs []error
	for _, ref := range refs {
		v, err := c.reg.LookupValidation(ref.Strategy)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		subEntry := entry
		subEntry.Ref = refString(ref)
		found, err := v.Validate(rule, subEntry, vctx)
		issues = append(issues, found...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return issues, stderrors.Join(errs...)
}

// Resolve asks each sub-strategy's transformer in order; the first
// non-nil resolution wins
func (c *Composite) Resolve(req ResolveRequest) (*Resolution, error) {
	refs, err := c.subRefs(req.Entry)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, ref := range refs {
		t, err := c.reg.LookupTransformation(ref.Strategy)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		subReq := req
		subReq.Entry.Ref = refString(ref)
		subReq.Params = ref.MergedParams(subReq.Entry)
		res, err := t.Resolve(subReq)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res != nil {
			return res, nil
		}
	}

	return nil, stderrors.Join(errs...)
}

// Transform delegates to the transformer the resolution was produced
// by; resolutions of unknown provenance apply as plain range patches
func (c *Composite) Transform(content []byte, res Resolution) ([]byte, error) {
	if res.Strategy != "" && res.Strategy != CompositeName {
		if t, err := c.reg.LookupTransformation(res.Strategy); err == nil {
			return t.Transform(content, res)
		}
	}
	return res.Patch.Apply(content)
}

func refString(ref Ref) string {
	if ref.Rest == "" || ref.Rest == ref.Strategy {
		return ref.Strategy
	}
	return ref.Strategy + ":" + ref.Rest
}
