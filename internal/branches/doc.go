// Package branches aggregates branch names across every tracked checkout,
// tallying how many checkouts carry each branch.
package branches
