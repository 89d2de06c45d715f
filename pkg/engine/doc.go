// Package engine wires the rule loader, matcher, dispatcher, config
// generator, and fix generator into one façade.
//
// Engine operations are pure functions over the loaded rule set and are
// safe to call concurrently; batch validation fans files out over a
// bounded worker group. Within one file the validate-then-fix pipeline
// always runs sequentially.
package engine
