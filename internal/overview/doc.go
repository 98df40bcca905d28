// Package overview renders the tracked repository dashboard.
//
// The service refreshes every tracked checkout through the fleet
// dispatcher and prints the resulting records as an aligned table or a
// CSV report.
package overview
