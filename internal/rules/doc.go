// Package rules implements the voice-leading rule engine for four-voice
// writing. Each rule pairs a detector with an optional set of named
// exception predicates; the engine evaluates an immutable definition
// snapshot against consecutive chord pairs and reports violations with a
// confidence level.
//
// Evaluation fails open: a detector error produces no violation, and an
// exception error never suppresses one. Both surface as typed EvalError
// values alongside the violations instead of aborting the batch.
package rules
