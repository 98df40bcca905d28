// Package inventory maintains the tracked repository list and display
// settings persisted to repositories.json.
//
// The Store reads both the current object layout and the legacy bare path
// array, and replaces the file atomically on save. Repository records carry
// the per-checkout fields shown on the dashboard together with sorting
// helpers for each column.
package inventory
