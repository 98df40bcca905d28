package scan_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/scan"
)

const (
	trackedPathConstant    = "/srv/checkouts/api"
	discoveredPathConstant = "/srv/checkouts/web"
	scanRootConstant       = "/srv/checkouts"
)

type stubDiscoverer struct {
	paths []string
	err   error
	roots []string
}

func (discoverer *stubDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.roots = roots
	return discoverer.paths, discoverer.err
}

type recordingStore struct {
	settings  inventory.Settings
	saved     []inventory.Settings
	loadError error
	saveError error
}

func (store *recordingStore) Load() (inventory.Settings, error) {
	return store.settings, store.loadError
}

func (store *recordingStore) Save(settings inventory.Settings) error {
	store.saved = append(store.saved, settings)
	return store.saveError
}

type scriptedPrompter struct {
	results []shared.ConfirmationResult
	err     error
	calls   int
}

func (prompter *scriptedPrompter) Confirm(string) (shared.ConfirmationResult, error) {
	prompter.calls++
	if prompter.err != nil {
		return shared.ConfirmationResult{}, prompter.err
	}
	index := prompter.calls - 1
	if index >= len(prompter.results) {
		index = len(prompter.results) - 1
	}
	return prompter.results[index], nil
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, missingDiscovererError := scan.NewService(scan.Dependencies{Store: &recordingStore{}})
	require.ErrorIs(t, missingDiscovererError, scan.ErrDiscovererNotConfigured)

	_, missingStoreError := scan.NewService(scan.Dependencies{Discoverer: &stubDiscoverer{}})
	require.ErrorIs(t, missingStoreError, scan.ErrStoreNotConfigured)
}

func TestScanRequiresRoots(t *testing.T) {
	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{},
		Store:      &recordingStore{settings: inventory.DefaultSettings()},
	})
	require.NoError(t, creationError)

	_, scanError := service.Scan(scan.Options{})
	require.ErrorIs(t, scanError, scan.ErrScanRootsRequired)
}

func TestScanTracksNewCheckouts(t *testing.T) {
	outputBuilder := &strings.Builder{}
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant},
		ShowFullPath:    true,
	}}
	discoverer := &stubDiscoverer{paths: []string{trackedPathConstant, discoveredPathConstant}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: discoverer,
		Store:      store,
		Reporter:   shared.NewWriterReporter(outputBuilder),
	})
	require.NoError(t, creationError)

	result, scanError := service.Scan(scan.Options{Roots: []string{scanRootConstant}})
	require.NoError(t, scanError)
	require.Equal(t, 2, result.DiscoveredCount)
	require.Equal(t, 1, result.TrackedCount)
	require.Equal(t, []string{discoveredPathConstant}, result.TrackedPaths)
	require.Equal(t, []string{scanRootConstant}, discoverer.roots)

	require.Len(t, store.saved, 1)
	require.Equal(t, []string{trackedPathConstant, discoveredPathConstant}, store.saved[0].RepositoryPaths)

	require.Contains(t, outputBuilder.String(), "TRACKED: "+discoveredPathConstant)
	require.Contains(t, outputBuilder.String(), "Discovered 2 checkouts, tracking 1 new")
}

func TestScanDryRunDoesNotSave(t *testing.T) {
	outputBuilder := &strings.Builder{}
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant},
		ShowFullPath:    true,
	}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{paths: []string{trackedPathConstant, discoveredPathConstant}},
		Store:      store,
		Reporter:   shared.NewWriterReporter(outputBuilder),
	})
	require.NoError(t, creationError)

	result, scanError := service.Scan(scan.Options{Roots: []string{scanRootConstant}, DryRun: true})
	require.NoError(t, scanError)
	require.Equal(t, 1, result.TrackedCount)
	require.Empty(t, store.saved)
	require.Contains(t, outputBuilder.String(), "PLAN-TRACK: "+discoveredPathConstant)
	require.Contains(t, outputBuilder.String(), "PLAN-SKIP (already tracked): "+trackedPathConstant)
}

func TestScanSkipsSaveWhenNothingNew(t *testing.T) {
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant},
		ShowFullPath:    true,
	}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{paths: []string{trackedPathConstant}},
		Store:      store,
		Reporter:   shared.NewWriterReporter(&strings.Builder{}),
	})
	require.NoError(t, creationError)

	result, scanError := service.Scan(scan.Options{Roots: []string{scanRootConstant}})
	require.NoError(t, scanError)
	require.Zero(t, result.TrackedCount)
	require.Empty(t, store.saved)
}

func TestScanWrapsDiscoveryFailure(t *testing.T) {
	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{err: errors.New("walk failed")},
		Store:      &recordingStore{settings: inventory.DefaultSettings()},
	})
	require.NoError(t, creationError)

	_, scanError := service.Scan(scan.Options{Roots: []string{scanRootConstant}})
	require.Error(t, scanError)
	require.Contains(t, scanError.Error(), "walk failed")
}

func TestRemoveUntracksConfirmedPaths(t *testing.T) {
	outputBuilder := &strings.Builder{}
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant, discoveredPathConstant},
		ShowFullPath:    true,
	}}
	prompter := &scriptedPrompter{results: []shared.ConfirmationResult{{Confirmed: true}}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{},
		Store:      store,
		Prompter:   prompter,
		Reporter:   shared.NewWriterReporter(outputBuilder),
	})
	require.NoError(t, creationError)

	result, removeError := service.Remove(scan.RemoveOptions{Paths: []string{trackedPathConstant}})
	require.NoError(t, removeError)
	require.Equal(t, 1, result.RemovedCount)
	require.Equal(t, 1, prompter.calls)

	require.Len(t, store.saved, 1)
	require.Equal(t, []string{discoveredPathConstant}, store.saved[0].RepositoryPaths)
	require.Contains(t, outputBuilder.String(), "UNTRACKED: "+trackedPathConstant)
}

func TestRemoveSkipsDeclinedPaths(t *testing.T) {
	outputBuilder := &strings.Builder{}
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant},
		ShowFullPath:    true,
	}}
	prompter := &scriptedPrompter{results: []shared.ConfirmationResult{{Confirmed: false}}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{},
		Store:      store,
		Prompter:   prompter,
		Reporter:   shared.NewWriterReporter(outputBuilder),
	})
	require.NoError(t, creationError)

	result, removeError := service.Remove(scan.RemoveOptions{Paths: []string{trackedPathConstant}})
	require.NoError(t, removeError)
	require.Zero(t, result.RemovedCount)
	require.Empty(t, store.saved)
	require.Contains(t, outputBuilder.String(), "SKIP: "+trackedPathConstant)
}

func TestRemoveAssumeYesSkipsPrompt(t *testing.T) {
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant},
		ShowFullPath:    true,
	}}
	prompter := &scriptedPrompter{results: []shared.ConfirmationResult{{Confirmed: false}}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{},
		Store:      store,
		Prompter:   prompter,
		Reporter:   shared.NewWriterReporter(&strings.Builder{}),
	})
	require.NoError(t, creationError)

	result, removeError := service.Remove(scan.RemoveOptions{Paths: []string{trackedPathConstant}, Confirmation: shared.ConfirmationAssumeYes})
	require.NoError(t, removeError)
	require.Equal(t, 1, result.RemovedCount)
	require.Zero(t, prompter.calls)
}

func TestRemoveReportsUntrackedPaths(t *testing.T) {
	outputBuilder := &strings.Builder{}
	store := &recordingStore{settings: inventory.Settings{
		RepositoryPaths: []string{trackedPathConstant},
		ShowFullPath:    true,
	}}

	service, creationError := scan.NewService(scan.Dependencies{
		Discoverer: &stubDiscoverer{},
		Store:      store,
		Reporter:   shared.NewWriterReporter(outputBuilder),
	})
	require.NoError(t, creationError)

	result, removeError := service.Remove(scan.RemoveOptions{Paths: []string{"/srv/checkouts/unknown"}, Confirmation: shared.ConfirmationAssumeYes})
	require.NoError(t, removeError)
	require.Zero(t, result.RemovedCount)
	require.Empty(t, store.saved)
	require.Contains(t, outputBuilder.String(), "NOT-TRACKED: /srv/checkouts/unknown")
}
