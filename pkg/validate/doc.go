// Package validate runs file content through the validation strategies
// attached to applicable rules.
//
// The dispatcher is deliberately forgiving: a failing validation entry
// is recorded and attributed to its rule, never allowed to abort the
// rest of the run. Callers always get a best-effort result plus the
// list of what went wrong.
package validate
