// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate hg invocation events into concise operator-facing
// lines so that bulk dispatch feedback remains actionable for CLI users while
// detailed telemetry continues to flow through structured loggers.
package ui
