package branches

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	storeMissingMessageConstant     = "settings store not configured"
	inspectorMissingMessageConstant = "checkout inspector not configured"
	settingsLoadFailureTemplate     = "failed to load repository settings: %w"
	probeFailureMessageConstant     = "ERROR: %s: %v\n"
	tableMinimumWidthConstant       = 0
	tableTabWidthConstant           = 0
	tablePaddingConstant            = 2
	tablePaddingCharacterConstant   = ' '
	tableHeaderConstant             = "BRANCH\tCHECKOUTS"
	tableRowTemplateConstant        = "%s\t%d\n"
)

// ErrStoreNotConfigured indicates the settings store dependency was missing.
var ErrStoreNotConfigured = errors.New(storeMissingMessageConstant)

// ErrInspectorNotConfigured indicates the checkout inspector dependency was missing.
var ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// SettingsStore loads the persisted repository inventory.
type SettingsStore interface {
	Load() (inventory.Settings, error)
}

// Dependencies enumerates external collaborators required by the branch tally service.
type Dependencies struct {
	Store     SettingsStore
	Inspector shared.CheckoutInspector
	Output    io.Writer
	Errors    io.Writer
}

// BranchTally pairs a branch name with the number of checkouts carrying it.
type BranchTally struct {
	Name          string
	CheckoutCount int
}

// Result captures the aggregated tallies and the checkouts that failed probing.
type Result struct {
	Tallies     []BranchTally
	FailedPaths []string
}

// Service aggregates branch names across the tracked checkouts.
type Service struct {
	store     SettingsStore
	inspector shared.CheckoutInspector
	output    io.Writer
	errors    io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	return &Service{
		store:     dependencies.Store,
		inspector: dependencies.Inspector,
		output:    dependencies.Output,
		errors:    dependencies.Errors,
	}, nil
}

// Run probes every tracked checkout for its branch list and renders the
// aggregated tally, count-descending then name-ascending. A failing checkout
// is reported and skipped without aborting the aggregation.
func (service *Service) Run(executionContext context.Context) (Result, error) {
	settings, loadError := service.store.Load()
	if loadError != nil {
		return Result{}, fmt.Errorf(settingsLoadFailureTemplate, loadError)
	}

	branchCounts := make(map[string]int)
	failedPaths := make([]string, 0)
	for _, repositoryPath := range settings.RepositoryPaths {
		branchNames, probeError := service.inspector.Branches(executionContext, repositoryPath)
		if probeError != nil {
			failedPaths = append(failedPaths, repositoryPath)
			if service.errors != nil {
				fmt.Fprintf(service.errors, probeFailureMessageConstant, repositoryPath, probeError)
			}
			continue
		}

		seen := make(map[string]struct{}, len(branchNames))
		for _, branchName := range branchNames {
			if _, duplicate := seen[branchName]; duplicate {
				continue
			}
			seen[branchName] = struct{}{}
			branchCounts[branchName]++
		}
	}

	tallies := make([]BranchTally, 0, len(branchCounts))
	for branchName, checkoutCount := range branchCounts {
		tallies = append(tallies, BranchTally{Name: branchName, CheckoutCount: checkoutCount})
	}
	sort.SliceStable(tallies, func(firstIndex int, secondIndex int) bool {
		first := tallies[firstIndex]
		second := tallies[secondIndex]
		if first.CheckoutCount != second.CheckoutCount {
			return first.CheckoutCount > second.CheckoutCount
		}
		return first.Name < second.Name
	})

	if writeError := service.writeTable(tallies); writeError != nil {
		return Result{}, writeError
	}

	return Result{Tallies: tallies, FailedPaths: failedPaths}, nil
}

func (service *Service) writeTable(tallies []BranchTally) error {
	if service.output == nil {
		return nil
	}

	tableWriter := tabwriter.NewWriter(service.output, tableMinimumWidthConstant, tableTabWidthConstant, tablePaddingConstant, tablePaddingCharacterConstant, 0)
	if _, headerError := fmt.Fprintln(tableWriter, tableHeaderConstant); headerError != nil {
		return headerError
	}
	for _, tally := range tallies {
		if _, rowError := fmt.Fprintf(tableWriter, tableRowTemplateConstant, tally.Name, tally.CheckoutCount); rowError != nil {
			return rowError
		}
	}
	return tableWriter.Flush()
}
