// Package analyzer runs semantic rules over a projected tune.
//
// The parser only checks what the grammar and the header fields can tell on
// their own. Rules here look at the whole tune: they know the meter, the unit
// note length and the standard decoration vocabulary.
//
// Rules live in a Registry and are selected per run through Config: default
// rules run unless their name is disabled, opt-in rules run only when their
// name is enabled. Analyze returns the findings ordered by range.
package analyzer
