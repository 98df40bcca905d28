package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

const (
	// DefaultInventoryFileNameConstant names the persisted inventory document.
	DefaultInventoryFileNameConstant = "repositories.json"
	// DefaultThemeIndexConstant selects the first bundled theme.
	DefaultThemeIndexConstant = 0

	inventoryFilePermissionsConstant = os.FileMode(0o644)
	inventoryDirectoryPermissions    = os.FileMode(0o755)
	jsonIndentPrefixConstant         = ""
	jsonIndentConstant               = "  "
	storePathMissingMessageConstant  = "inventory file path must be provided"
	readFailureTemplateConstant      = "failed to read inventory file %s: %w"
	decodeFailureTemplateConstant    = "failed to decode inventory file %s: %w"
	encodeFailureTemplateConstant    = "failed to encode inventory: %w"
	writeFailureTemplateConstant     = "failed to write inventory file %s: %w"
	directoryFailureTemplateConstant = "failed to create inventory directory %s: %w"
)

// ErrStorePathMissing indicates the store was constructed without a file path.
var ErrStorePathMissing = errors.New(storePathMissingMessageConstant)

// Settings holds the persisted dashboard state.
type Settings struct {
	RepositoryPaths []string
	ThemeIndex      int
	ShowFullPath    bool
}

// DefaultSettings returns the state used when no configuration file exists.
func DefaultSettings() Settings {
	return Settings{
		RepositoryPaths: []string{},
		ThemeIndex:      DefaultThemeIndexConstant,
		ShowFullPath:    true,
	}
}

// AddRepositoryPaths appends new paths to the settings, deduplicating while
// preserving the existing tracked order.
func (settings *Settings) AddRepositoryPaths(repositoryPaths []string) int {
	tracked := make(map[string]struct{}, len(settings.RepositoryPaths))
	for _, existingPath := range settings.RepositoryPaths {
		tracked[existingPath] = struct{}{}
	}

	added := 0
	for _, repositoryPath := range repositoryPaths {
		trimmedPath := strings.TrimSpace(repositoryPath)
		if len(trimmedPath) == 0 {
			continue
		}
		if _, alreadyTracked := tracked[trimmedPath]; alreadyTracked {
			continue
		}
		tracked[trimmedPath] = struct{}{}
		settings.RepositoryPaths = append(settings.RepositoryPaths, trimmedPath)
		added++
	}

	return added
}

// RemoveRepositoryPaths drops the provided paths from the settings.
func (settings *Settings) RemoveRepositoryPaths(repositoryPaths []string) int {
	removalSet := make(map[string]struct{}, len(repositoryPaths))
	for _, repositoryPath := range repositoryPaths {
		removalSet[strings.TrimSpace(repositoryPath)] = struct{}{}
	}

	retained := settings.RepositoryPaths[:0]
	removed := 0
	for _, existingPath := range settings.RepositoryPaths {
		if _, shouldRemove := removalSet[existingPath]; shouldRemove {
			removed++
			continue
		}
		retained = append(retained, existingPath)
	}
	settings.RepositoryPaths = retained
	return removed
}

type persistedSettings struct {
	Repositories []string `json:"repositories"`
	ThemeIndex   int      `json:"theme_idx"`
	ShowFullPath *bool    `json:"show_full_path,omitempty"`
}

type storedSettings struct {
	Repositories []string `json:"repositories"`
	ThemeIndex   int      `json:"theme_idx"`
	ShowFullPath bool     `json:"show_full_path"`
}

// Store persists the inventory as JSON with atomic replacement semantics.
type Store struct {
	inventoryFilePath string
}

// NewStore constructs a Store for the provided inventory file path.
func NewStore(inventoryFilePath string) (*Store, error) {
	trimmedPath := strings.TrimSpace(inventoryFilePath)
	if len(trimmedPath) == 0 {
		return nil, ErrStorePathMissing
	}
	return &Store{inventoryFilePath: trimmedPath}, nil
}

// Path reports the inventory file location backing the store.
func (store *Store) Path() string {
	return store.inventoryFilePath
}

// Load reads persisted settings, tolerating missing files and the legacy
// bare-array layout that stored only repository paths.
func (store *Store) Load() (Settings, error) {
	fileContents, readError := os.ReadFile(store.inventoryFilePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf(readFailureTemplateConstant, store.inventoryFilePath, readError)
	}

	var persisted persistedSettings
	keyedError := json.Unmarshal(fileContents, &persisted)
	if keyedError == nil {
		settings := Settings{
			RepositoryPaths: persisted.Repositories,
			ThemeIndex:      persisted.ThemeIndex,
			ShowFullPath:    true,
		}
		if settings.RepositoryPaths == nil {
			settings.RepositoryPaths = []string{}
		}
		if persisted.ShowFullPath != nil {
			settings.ShowFullPath = *persisted.ShowFullPath
		}
		return settings, nil
	}

	var legacyRepositoryPaths []string
	if legacyError := json.Unmarshal(fileContents, &legacyRepositoryPaths); legacyError == nil {
		settings := DefaultSettings()
		settings.RepositoryPaths = legacyRepositoryPaths
		return settings, nil
	}

	return Settings{}, fmt.Errorf(decodeFailureTemplateConstant, store.inventoryFilePath, keyedError)
}

// Save writes the settings atomically, replacing the previous file contents.
func (store *Store) Save(settings Settings) error {
	stored := storedSettings{
		Repositories: settings.RepositoryPaths,
		ThemeIndex:   settings.ThemeIndex,
		ShowFullPath: settings.ShowFullPath,
	}
	if stored.Repositories == nil {
		stored.Repositories = []string{}
	}

	encodedSettings, encodeError := json.MarshalIndent(stored, jsonIndentPrefixConstant, jsonIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(encodeFailureTemplateConstant, encodeError)
	}

	inventoryDirectory := filepath.Dir(store.inventoryFilePath)
	if directoryError := os.MkdirAll(inventoryDirectory, inventoryDirectoryPermissions); directoryError != nil {
		return fmt.Errorf(directoryFailureTemplateConstant, inventoryDirectory, directoryError)
	}

	if writeError := renameio.WriteFile(store.inventoryFilePath, encodedSettings, inventoryFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, store.inventoryFilePath, writeError)
	}
	return nil
}
