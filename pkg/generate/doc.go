// Package generate merges matched rules into a derived configuration.
//
// Generation runs the context matcher over a rule set, takes every rule
// with a positive score in rank order, and deep-merges each rule's
// payload plus its recursively resolved includes into a single
// configuration mapping. Higher-ranked rules win scalar conflicts,
// array values concatenate in rank order with exact duplicates removed,
// and cyclic includes abort the call with a CYCLIC_INCLUDE error
// naming the full cycle.
package generate
