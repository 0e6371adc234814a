// Package main hosts the listwise CLI entrypoint and command graph.
//
// Each invocation loads configuration, opens the local wizard session
// database, applies one user action to the selected session (a field edit,
// a media upload, a step move, or the final submission), and persists the
// result before exiting. Sessions are addressed with --session by id prefix
// and default to the most recently touched one.
//
// Keep this package thin: draft rules, validation, media handling and the
// API client live under internal/, and commands here only translate flags
// into calls on those packages and render the outcome.
package main
