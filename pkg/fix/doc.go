// Package fix converts validation issues into applied content changes.
//
// Issues are grouped by rule and resolved through the transformation
// strategies named by each rule's validation entries. Resolutions apply
// sequentially against the current content snapshot; one that no longer
// fits (stale offsets, conflicting edit) leaves its issue unresolved
// instead of failing the call. The report carries the original issues,
// the applied resolutions, the unresolved remainder, and a unified diff
// of the change.
package fix
