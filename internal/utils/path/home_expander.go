package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutSymbolConstant = "~"

var homeShortcutPrefixes = []string{
	homeShortcutSymbolConstant + "/",
	homeShortcutSymbolConstant + string(os.PathSeparator),
}

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts to absolute paths.
type HomeExpander struct {
	provider   HomeDirectoryProvider
	lookupOnce sync.Once
	home       string
	lookupErr  error
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves leading tilde prefixes to the user's home directory. Paths
// without a tilde prefix, and paths whose home lookup fails, pass through
// unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}
	if !strings.HasPrefix(candidatePath, homeShortcutSymbolConstant) {
		return candidatePath
	}

	homeDirectory := expander.homeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == homeShortcutSymbolConstant {
		return homeDirectory
	}

	for _, shortcutPrefix := range homeShortcutPrefixes {
		if strings.HasPrefix(candidatePath, shortcutPrefix) {
			return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, shortcutPrefix))
		}
	}

	return candidatePath
}

func (expander *HomeExpander) homeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.home, expander.lookupErr = expander.provider()
	})
	if expander.lookupErr != nil {
		return ""
	}
	return expander.home
}
