// Package fleet dispatches Mercurial operations across many checkouts at once.
//
// A Dispatcher runs one RepositoryOperation per tracked repository under a
// bounded concurrency limit, refreshes every record afterwards, and collects
// per-repository outcomes into an ordered Report. Failures stay isolated: a
// broken checkout records an Error status while the rest proceed.
package fleet
