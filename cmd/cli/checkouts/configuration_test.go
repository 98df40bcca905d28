package checkouts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/watch"
)

func TestDefaultToolsConfiguration(t *testing.T) {
	defaults := DefaultToolsConfiguration()

	require.Equal(t, []string{defaultScanRootConstant}, defaults.Scan.Roots)
	require.False(t, defaults.Scan.DryRun)
	require.Equal(t, fleet.DefaultConcurrencyConstant, defaults.Fleet.Concurrency)
	require.False(t, defaults.Fleet.AssumeYes)
	require.Equal(t, int(watch.DefaultDebounceConstant.Milliseconds()), defaults.Watch.DebounceMilliseconds)
}

func TestScanConfigurationSanitize(t *testing.T) {
	testCases := []struct {
		name          string
		configuration ScanConfiguration
		expectedRoots []string
	}{
		{
			name:          "blank_roots_default_to_working_directory",
			configuration: ScanConfiguration{Roots: []string{"", "   "}},
			expectedRoots: []string{defaultScanRootConstant},
		},
		{
			name:          "boolean_literals_filtered",
			configuration: ScanConfiguration{Roots: []string{"true", "FALSE", "/srv/checkouts"}},
			expectedRoots: []string{"/srv/checkouts"},
		},
		{
			name:          "valid_roots_trimmed",
			configuration: ScanConfiguration{Roots: []string{"  /srv/checkouts  ", "/srv/archive"}},
			expectedRoots: []string{"/srv/checkouts", "/srv/archive"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			sanitized := testCase.configuration.sanitize()
			require.Equal(t, testCase.expectedRoots, sanitized.Roots)
		})
	}
}

func TestFleetConfigurationSanitize(t *testing.T) {
	testCases := []struct {
		name                string
		configuration       FleetConfiguration
		expectedConcurrency int
	}{
		{
			name:                "zero_concurrency_defaults",
			configuration:       FleetConfiguration{Concurrency: 0},
			expectedConcurrency: fleet.DefaultConcurrencyConstant,
		},
		{
			name:                "negative_concurrency_defaults",
			configuration:       FleetConfiguration{Concurrency: -2},
			expectedConcurrency: fleet.DefaultConcurrencyConstant,
		},
		{
			name:                "positive_concurrency_preserved",
			configuration:       FleetConfiguration{Concurrency: 12},
			expectedConcurrency: 12,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			sanitized := testCase.configuration.sanitize()
			require.Equal(t, testCase.expectedConcurrency, sanitized.Concurrency)
		})
	}
}

func TestWatchConfigurationSanitize(t *testing.T) {
	testCases := []struct {
		name             string
		configuration    WatchConfiguration
		expectedDebounce int
	}{
		{
			name:             "zero_debounce_defaults",
			configuration:    WatchConfiguration{DebounceMilliseconds: 0},
			expectedDebounce: int(watch.DefaultDebounceConstant.Milliseconds()),
		},
		{
			name:             "positive_debounce_preserved",
			configuration:    WatchConfiguration{DebounceMilliseconds: 125},
			expectedDebounce: 125,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			sanitized := testCase.configuration.sanitize()
			require.Equal(t, testCase.expectedDebounce, sanitized.DebounceMilliseconds)
		})
	}
}
