// Package strategies provides the pluggable validation and
// transformation strategies and their registry.
//
// A validation strategy inspects content and reports issues; a
// transformation strategy converts issues into resolutions (range
// patches) and applies them. Strategies are looked up by the name
// prefix of a rule's validation reference ("length:max=120"); unknown
// names fall back to the composite strategy, which delegates to the
// sub-strategies named in its parameters and reports unresolvable ones
// as STRATEGY_NOT_FOUND without aborting the run.
//
// Built-ins: length, pattern, format, mdlink, cel, composite. Custom
// strategies register through Registry.RegisterValidation and
// Registry.RegisterTransformation with the same interfaces.
package strategies
