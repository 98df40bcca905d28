// Package hgrepo contains helpers for interrogating and manipulating Mercurial checkouts.
//
// It exposes RepositoryManager for reading branches, revisions, phases, and
// working copy status and for running pull, update, revert, and commit, along
// with WorkbenchLauncher for opening TortoiseHg against a checkout. Every hg
// invocation runs with HGPLAIN enabled so output stays parseable.
package hgrepo
