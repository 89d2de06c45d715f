// Package report renders validation results, fix reports, and
// generated configurations for terminals and machine consumers, and
// persists them through a pluggable sink.
//
// Text rendering uses adaptive lipgloss styles that follow the
// terminal's light or dark theme; JSON rendering emits the structures
// as-is for tooling. Markdown (rule bodies) renders through glamour
// with a plain-text fallback when the terminal cannot take it.
package report
