// Package wizard implements the five-step listing wizard: per-step validation
// rules and the sequencer that moves a session between steps.
//
// Validation reports one reason at a time, the first failing rule of the step.
// Sequencer methods are pure: they take a State and a draft and return the
// next State, so callers decide when to persist.
package wizard
