// Package rules provides the rule model, file format, and cached loader.
//
// Rules live in .mdc files: YAML frontmatter delimited by "---" lines,
// followed by a markdown body. The frontmatter carries the rule's
// identity, applicability conditions, configuration payload, and
// validation entries:
//
//	---
//	id: docs-length
//	name: Documentation length limits
//	conditions:
//	  technologies: [typescript]
//	globs: ["docs/**/*.md"]
//	payload:
//	  docs:
//	    maxLength: 120
//	validations:
//	  - id: v1
//	    validationRef: "length:max=120,unit=line"
//	---
//	Body text describing the rule.
//
// # Loading
//
// The Loader reads every recognized rule file through a Source, validates
// each against the embedded JSON schema, and caches the result by rule id.
// In lenient mode invalid rules are skipped and reported as diagnostics;
// in strict mode the first failure aborts the load. Duplicate ids
// overwrite earlier entries in lenient mode and are rejected in strict
// mode.
//
// The cache is a copy-on-write snapshot: concurrent reads are lock-free
// and a reload swaps the snapshot atomically.
package rules
