package prefs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/prefs"
)

type recordingStore struct {
	settings inventory.Settings
	saved    []inventory.Settings
}

func (store *recordingStore) Load() (inventory.Settings, error) {
	return store.settings, nil
}

func (store *recordingStore) Save(settings inventory.Settings) error {
	store.saved = append(store.saved, settings)
	return nil
}

func intPointer(value int) *int {
	return &value
}

func boolPointer(value bool) *bool {
	return &value
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, creationError := prefs.NewService(prefs.Dependencies{})
	require.ErrorIs(t, creationError, prefs.ErrStoreNotConfigured)
}

func TestRunPrintsCurrentValuesWithoutUpdates(t *testing.T) {
	outputBuilder := &strings.Builder{}
	store := &recordingStore{settings: inventory.Settings{ThemeIndex: 3, ShowFullPath: false}}
	service, creationError := prefs.NewService(prefs.Dependencies{Store: store, Output: outputBuilder})
	require.NoError(t, creationError)

	result, runError := service.Run(prefs.Options{})
	require.NoError(t, runError)
	require.False(t, result.Updated)
	require.Empty(t, store.saved)
	require.Contains(t, outputBuilder.String(), "theme_idx: 3")
	require.Contains(t, outputBuilder.String(), "show_full_path: false")
}

func TestRunAppliesUpdates(t *testing.T) {
	testCases := []struct {
		name                 string
		options              prefs.Options
		initialSettings      inventory.Settings
		expectedThemeIndex   int
		expectedShowFullPath bool
		expectSave           bool
	}{
		{
			name:                 "theme_index_update",
			options:              prefs.Options{ThemeIndex: intPointer(5)},
			initialSettings:      inventory.Settings{ThemeIndex: 0, ShowFullPath: true},
			expectedThemeIndex:   5,
			expectedShowFullPath: true,
			expectSave:           true,
		},
		{
			name:                 "show_full_path_update",
			options:              prefs.Options{ShowFullPath: boolPointer(false)},
			initialSettings:      inventory.Settings{ThemeIndex: 1, ShowFullPath: true},
			expectedThemeIndex:   1,
			expectedShowFullPath: false,
			expectSave:           true,
		},
		{
			name:                 "identical_values_skip_save",
			options:              prefs.Options{ThemeIndex: intPointer(1), ShowFullPath: boolPointer(true)},
			initialSettings:      inventory.Settings{ThemeIndex: 1, ShowFullPath: true},
			expectedThemeIndex:   1,
			expectedShowFullPath: true,
			expectSave:           false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			store := &recordingStore{settings: testCase.initialSettings}
			service, creationError := prefs.NewService(prefs.Dependencies{Store: store, Output: &strings.Builder{}})
			require.NoError(t, creationError)

			result, runError := service.Run(testCase.options)
			require.NoError(t, runError)
			require.Equal(t, testCase.expectSave, result.Updated)
			require.Equal(t, testCase.expectedThemeIndex, result.Settings.ThemeIndex)
			require.Equal(t, testCase.expectedShowFullPath, result.Settings.ShowFullPath)

			if testCase.expectSave {
				require.Len(t, store.saved, 1)
			} else {
				require.Empty(t, store.saved)
			}
		})
	}
}

func TestRunRejectsNegativeThemeIndex(t *testing.T) {
	store := &recordingStore{settings: inventory.DefaultSettings()}
	service, creationError := prefs.NewService(prefs.Dependencies{Store: store})
	require.NoError(t, creationError)

	_, runError := service.Run(prefs.Options{ThemeIndex: intPointer(-1)})
	require.ErrorIs(t, runError, prefs.ErrThemeIndexNegative)
	require.Empty(t, store.saved)
}
