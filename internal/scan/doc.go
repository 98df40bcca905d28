// Package scan maintains the tracked checkout inventory: it discovers
// Mercurial working copies under filesystem roots and adds them to the
// persisted inventory, and removes tracked paths on request.
package scan
