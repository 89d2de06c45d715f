// Package matching scores and ranks rules against a runtime context and
// determines which rules apply to a file path.
//
// Context matching produces MatchResults ordered by score, with
// deterministic tie-breaking (declared condition-category count, then
// rule id). File matching uses full glob semantics via doublestar,
// including `**` across path segments.
package matching
