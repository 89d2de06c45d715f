package strategies

import "github.com/ruleweave/ruleweave/pkg/rules"

// Validator is a named validation strategy: it inspects content through
// the validation context and reports issues. Implementations must be
// safe for concurrent use.
type Validator interface {
	// Validate runs one validation entry of a rule against the context.
	// Partial results are allowed: issues found before an error are
	// returned alongside it.
	Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error)
}

// Transformer is a named transformation strategy: it converts issues
// into resolutions and applies resolutions to content.
type Transformer interface {
	// Resolve produces a resolution for one issue against the current
	// content snapshot. A nil resolution with nil error means the issue
	// is not automatically resolvable by this strategy.
	Resolve(req ResolveRequest) (*Resolution, error)

	// Transform applies a resolution to content, returning the new
	// content. Stale or conflicting resolutions fail with an
	// APPLY_FAILURE coded error.
	Transform(content []byte, res Resolution) ([]byte, error)
}

// ResolveRequest carries everything a transformation strategy needs to
// build a resolution for one issue.
type ResolveRequest struct {
	Rule       rules.Rule
	Entry      rules.ValidationEntry
	Params     map[string]interface{}
	Issue      Issue
	IssueIndex int
	Content    []byte
}

// RangeTransform provides the standard Transform implementation for
// strategies whose resolutions are plain range patches. Embed it to get
// patch application with stale-content detection.
type RangeTransform struct{}

// Transform applies the resolution's patch to the content
func (RangeTransform) Transform(content []byte, res Resolution) ([]byte, error) {
	return res.Patch.Apply(content)
}
