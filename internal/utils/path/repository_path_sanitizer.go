package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

const windowsOperatingSystemNameConstant = "windows"

// RepositoryPathSanitizerConfiguration controls checkout path sanitization behavior.
type RepositoryPathSanitizerConfiguration struct {
	// ExcludeBooleanLiteralCandidates removes arguments that represent boolean literals.
	ExcludeBooleanLiteralCandidates bool
	// PruneNestedPaths removes checkout paths that are nested within other provided paths.
	PruneNestedPaths bool
}

// RepositoryPathSanitizer normalizes checkout path inputs consistently across commands.
type RepositoryPathSanitizer struct {
	homeExpander  *HomeExpander
	configuration RepositoryPathSanitizerConfiguration
}

// NewRepositoryPathSanitizer constructs a RepositoryPathSanitizer with default behavior.
func NewRepositoryPathSanitizer() *RepositoryPathSanitizer {
	return NewRepositoryPathSanitizerWithConfiguration(nil, RepositoryPathSanitizerConfiguration{})
}

// NewRepositoryPathSanitizerWithConfiguration constructs a RepositoryPathSanitizer using the provided expander and configuration.
func NewRepositoryPathSanitizerWithConfiguration(homeExpander *HomeExpander, configuration RepositoryPathSanitizerConfiguration) *RepositoryPathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &RepositoryPathSanitizer{
		homeExpander:  resolvedExpander,
		configuration: configuration,
	}
}

// Sanitize trims whitespace, expands the user's home directory, and removes
// disallowed values; nil is returned when nothing usable remains.
func (sanitizer *RepositoryPathSanitizer) Sanitize(candidatePaths []string) []string {
	expander := sanitizer.homeExpander
	if expander == nil {
		expander = NewHomeExpander()
	}
	configuration := sanitizer.configuration

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePath)
		if len(trimmedCandidate) == 0 {
			continue
		}
		if configuration.ExcludeBooleanLiteralCandidates && isBooleanLiteral(trimmedCandidate) {
			continue
		}

		expandedPath := expander.Expand(trimmedCandidate)
		if len(expandedPath) == 0 {
			continue
		}
		sanitizedPaths = append(sanitizedPaths, expandedPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}
	if configuration.PruneNestedPaths {
		return pruneNestedPaths(sanitizedPaths)
	}
	return sanitizedPaths
}

func isBooleanLiteral(candidate string) bool {
	switch strings.ToLower(candidate) {
	case "true", "false":
		return true
	default:
		return false
	}
}

type pathCandidate struct {
	originalIndex int
	value         string
	canonical     string
	comparison    string
}

// pruneNestedPaths drops duplicates and paths contained in another candidate,
// keeping the outermost paths in their original order.
func pruneNestedPaths(candidatePaths []string) []string {
	candidates := make([]pathCandidate, 0, len(candidatePaths))
	for index, candidatePath := range candidatePaths {
		canonicalPath := canonicalizePath(candidatePath)
		candidates = append(candidates, pathCandidate{
			originalIndex: index,
			value:         candidatePath,
			canonical:     canonicalPath,
			comparison:    comparisonPath(canonicalPath),
		})
	}

	sort.SliceStable(candidates, func(firstIndex int, secondIndex int) bool {
		first := candidates[firstIndex].comparison
		second := candidates[secondIndex].comparison
		if len(first) == len(second) {
			return first < second
		}
		return len(first) < len(second)
	})

	selected := make([]pathCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if containsCandidate(selected, candidate) {
			continue
		}
		selected = append(selected, candidate)
	}

	sort.SliceStable(selected, func(firstIndex int, secondIndex int) bool {
		return selected[firstIndex].originalIndex < selected[secondIndex].originalIndex
	})

	pruned := make([]string, 0, len(selected))
	for _, candidate := range selected {
		pruned = append(pruned, candidate.value)
	}
	return pruned
}

func containsCandidate(selected []pathCandidate, candidate pathCandidate) bool {
	for _, existing := range selected {
		if candidate.comparison == existing.comparison {
			return true
		}
		if isNestedPath(existing.canonical, candidate.canonical) {
			return true
		}
	}
	return false
}

func canonicalizePath(path string) string {
	cleanedPath := filepath.Clean(path)
	absolutePath, absoluteError := filepath.Abs(cleanedPath)
	if absoluteError != nil {
		return cleanedPath
	}
	return filepath.Clean(absolutePath)
}

func comparisonPath(path string) string {
	comparison := filepath.Clean(path)
	if runtime.GOOS == windowsOperatingSystemNameConstant {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}

func isNestedPath(parent string, candidate string) bool {
	parentClean := comparisonPath(parent)
	candidateClean := comparisonPath(candidate)

	if candidateClean == parentClean {
		return true
	}
	if len(candidateClean) <= len(parentClean) {
		return false
	}
	if !strings.HasPrefix(candidateClean, parentClean) {
		return false
	}

	if parentClean[len(parentClean)-1] == os.PathSeparator {
		return true
	}
	return candidateClean[len(parentClean)] == os.PathSeparator
}
