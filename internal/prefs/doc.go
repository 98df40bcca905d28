// Package prefs reads and updates the persisted display preferences
// (theme index and full-path rendering) stored alongside the inventory.
package prefs
