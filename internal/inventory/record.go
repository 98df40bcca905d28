package inventory

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	sortColumnPathNameConstant       = "path"
	sortColumnBranchNameConstant     = "branch"
	sortColumnRevisionNameConstant   = "revision"
	sortColumnModifiedNameConstant   = "modified"
	sortColumnPhaseNameConstant      = "phase"
	sortColumnStatusNameConstant     = "status"
	unknownSortColumnMessageConstant = "unknown sort column"
	modifiedMarkerConstant           = "Yes"
	unmodifiedMarkerConstant         = "No"
	emptyFieldPlaceholderConstant    = ""
)

// ErrUnknownSortColumn indicates an unrecognized sort column name.
var ErrUnknownSortColumn = errors.New(unknownSortColumnMessageConstant)

// Repository captures the observed state of one Mercurial checkout.
type Repository struct {
	Path       string
	Branch     string
	Revision   string
	Modified   bool
	Phase      shared.ChangesetPhase
	LastStatus string
}

// NewRepository constructs a repository record with unobserved fields blank.
func NewRepository(repositoryPath string) Repository {
	return Repository{
		Path:       repositoryPath,
		Branch:     emptyFieldPlaceholderConstant,
		Revision:   emptyFieldPlaceholderConstant,
		Modified:   false,
		Phase:      shared.ChangesetPhase(emptyFieldPlaceholderConstant),
		LastStatus: emptyFieldPlaceholderConstant,
	}
}

// DisplayPath renders the repository path, optionally shortened to its final element.
func (repository Repository) DisplayPath(showFullPath bool) string {
	if showFullPath {
		return repository.Path
	}
	return filepath.Base(repository.Path)
}

// ModifiedMarker renders the modified flag for tabular output.
func (repository Repository) ModifiedMarker() string {
	if repository.Modified {
		return modifiedMarkerConstant
	}
	return unmodifiedMarkerConstant
}

// RepositoriesFromPaths builds blank repository records preserving path order.
func RepositoriesFromPaths(repositoryPaths []string) []Repository {
	repositories := make([]Repository, 0, len(repositoryPaths))
	for _, repositoryPath := range repositoryPaths {
		repositories = append(repositories, NewRepository(repositoryPath))
	}
	return repositories
}

// MergeRepositories appends newly discovered records not already tracked,
// preserving the existing order.
func MergeRepositories(existing []Repository, discovered []Repository) []Repository {
	merged := make([]Repository, 0, len(existing)+len(discovered))
	tracked := make(map[string]struct{}, len(existing))
	for _, repository := range existing {
		merged = append(merged, repository)
		tracked[repository.Path] = struct{}{}
	}
	for _, repository := range discovered {
		if _, alreadyTracked := tracked[repository.Path]; alreadyTracked {
			continue
		}
		tracked[repository.Path] = struct{}{}
		merged = append(merged, repository)
	}
	return merged
}

// SortColumn identifies a dashboard column usable as a sort key.
type SortColumn int

// Sortable dashboard columns.
const (
	SortColumnPath SortColumn = iota
	SortColumnBranch
	SortColumnRevision
	SortColumnModified
	SortColumnPhase
	SortColumnStatus
)

// ParseSortColumn resolves a column name into a SortColumn.
func ParseSortColumn(raw string) (SortColumn, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case sortColumnPathNameConstant:
		return SortColumnPath, nil
	case sortColumnBranchNameConstant:
		return SortColumnBranch, nil
	case sortColumnRevisionNameConstant:
		return SortColumnRevision, nil
	case sortColumnModifiedNameConstant:
		return SortColumnModified, nil
	case sortColumnPhaseNameConstant:
		return SortColumnPhase, nil
	case sortColumnStatusNameConstant:
		return SortColumnStatus, nil
	}
	return SortColumnPath, ErrUnknownSortColumn
}

// SortOrder identifies the requested ordering direction.
type SortOrder int

// Sort orders.
const (
	// SortOrderNone keeps the inventory order.
	SortOrderNone SortOrder = iota
	// SortOrderAscending sorts the chosen column ascending.
	SortOrderAscending
	// SortOrderDescending sorts the chosen column descending.
	SortOrderDescending
)

// SortRepositories orders records in place by the requested column and
// direction. SortOrderNone keeps the inventory order untouched.
func SortRepositories(repositories []Repository, column SortColumn, order SortOrder) {
	if order == SortOrderNone {
		return
	}

	sort.SliceStable(repositories, func(firstIndex int, secondIndex int) bool {
		first := repositories[firstIndex]
		second := repositories[secondIndex]
		if order == SortOrderDescending {
			first, second = second, first
		}
		switch column {
		case SortColumnBranch:
			return first.Branch < second.Branch
		case SortColumnRevision:
			return first.Revision < second.Revision
		case SortColumnModified:
			return !first.Modified && second.Modified
		case SortColumnPhase:
			return first.Phase < second.Phase
		case SortColumnStatus:
			return first.LastStatus < second.LastStatus
		default:
			return first.Path < second.Path
		}
	})
}
