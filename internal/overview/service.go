package overview

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/AJacquin/ManaHg/internal/fleet"
	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	settingsStoreMissingMessageConstant = "settings store not configured"
	dispatcherMissingMessageConstant    = "operation dispatcher not configured"
	outputWriterMissingMessageConstant  = "output writer not configured"
	settingsLoadFailureTemplateConstant = "failed to load repository settings: %w"
	pathNotTrackedTemplateConstant      = "repository %s is not tracked"
	tableMinimumWidthConstant           = 0
	tableTabWidthConstant               = 0
	tablePaddingConstant                = 2
	tablePaddingCharacterConstant       = ' '
	tableHeaderConstant                 = "PATH\tBRANCH\tREVISION\tMODIFIED\tPHASE\tSTATUS"
	tableRowTemplateConstant            = "%s\t%s\t%s\t%s\t%s\t%s\n"
	csvHeaderPathConstant               = "path"
	csvHeaderBranchConstant             = "branch"
	csvHeaderRevisionConstant           = "revision"
	csvHeaderModifiedConstant           = "modified"
	csvHeaderPhaseConstant              = "phase"
	csvHeaderStatusConstant             = "status"
)

// ErrSettingsStoreNotConfigured indicates the settings store dependency was missing.
var ErrSettingsStoreNotConfigured = errors.New(settingsStoreMissingMessageConstant)

// ErrDispatcherNotConfigured indicates the dispatcher dependency was missing.
var ErrDispatcherNotConfigured = errors.New(dispatcherMissingMessageConstant)

// ErrOutputWriterNotConfigured indicates the output writer dependency was missing.
var ErrOutputWriterNotConfigured = errors.New(outputWriterMissingMessageConstant)

// Dependencies enumerates external collaborators required by the overview service.
type Dependencies struct {
	Store      SettingsStore
	Dispatcher OperationDispatcher
	Output     io.Writer
}

// Options configures a single dashboard rendering pass.
type Options struct {
	SortColumn   inventory.SortColumn
	SortOrder    inventory.SortOrder
	CSVOutput    bool
	PathFilter   *shared.RepositoryPath
	ShowFullPath *bool
}

// Result captures the refreshed records and the number of failed probes.
type Result struct {
	Repositories []inventory.Repository
	FailureCount int
}

// Service refreshes tracked repositories and renders the dashboard.
type Service struct {
	store      SettingsStore
	dispatcher OperationDispatcher
	output     io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrSettingsStoreNotConfigured
	}
	if dependencies.Dispatcher == nil {
		return nil, ErrDispatcherNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputWriterNotConfigured
	}
	return &Service{store: dependencies.Store, dispatcher: dependencies.Dispatcher, output: dependencies.Output}, nil
}

// Run refreshes every selected repository and writes the dashboard.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	settings, loadError := service.store.Load()
	if loadError != nil {
		return Result{}, fmt.Errorf(settingsLoadFailureTemplateConstant, loadError)
	}

	repositories := inventory.RepositoriesFromPaths(settings.RepositoryPaths)
	if options.PathFilter != nil {
		filtered, filterError := SelectRepositories(repositories, options.PathFilter)
		if filterError != nil {
			return Result{}, filterError
		}
		repositories = filtered
	}

	report := service.dispatcher.Dispatch(executionContext, repositories, fleet.RefreshOperation())
	records := report.Repositories()
	inventory.SortRepositories(records, options.SortColumn, options.SortOrder)

	showFullPath := settings.ShowFullPath
	if options.ShowFullPath != nil {
		showFullPath = *options.ShowFullPath
	}

	if options.CSVOutput {
		if writeError := service.writeCSV(records, showFullPath); writeError != nil {
			return Result{}, writeError
		}
		return Result{Repositories: records, FailureCount: report.FailureCount}, nil
	}

	if writeError := service.writeTable(records, showFullPath); writeError != nil {
		return Result{}, writeError
	}
	return Result{Repositories: records, FailureCount: report.FailureCount}, nil
}

// SelectRepositories narrows records to the requested path.
func SelectRepositories(repositories []inventory.Repository, pathFilter *shared.RepositoryPath) ([]inventory.Repository, error) {
	if pathFilter == nil {
		return repositories, nil
	}
	for _, repository := range repositories {
		if repository.Path == pathFilter.String() {
			return []inventory.Repository{repository}, nil
		}
	}
	return nil, fmt.Errorf(pathNotTrackedTemplateConstant, pathFilter.String())
}

func (service *Service) writeTable(records []inventory.Repository, showFullPath bool) error {
	tableWriter := tabwriter.NewWriter(service.output, tableMinimumWidthConstant, tableTabWidthConstant, tablePaddingConstant, tablePaddingCharacterConstant, 0)

	if _, headerError := fmt.Fprintln(tableWriter, tableHeaderConstant); headerError != nil {
		return headerError
	}

	for _, record := range records {
		_, rowError := fmt.Fprintf(
			tableWriter,
			tableRowTemplateConstant,
			record.DisplayPath(showFullPath),
			record.Branch,
			record.Revision,
			record.ModifiedMarker(),
			string(record.Phase),
			record.LastStatus,
		)
		if rowError != nil {
			return rowError
		}
	}

	return tableWriter.Flush()
}

func (service *Service) writeCSV(records []inventory.Repository, showFullPath bool) error {
	csvWriter := csv.NewWriter(service.output)

	header := []string{
		csvHeaderPathConstant,
		csvHeaderBranchConstant,
		csvHeaderRevisionConstant,
		csvHeaderModifiedConstant,
		csvHeaderPhaseConstant,
		csvHeaderStatusConstant,
	}
	if headerError := csvWriter.Write(header); headerError != nil {
		return headerError
	}

	for _, record := range records {
		row := []string{
			record.DisplayPath(showFullPath),
			record.Branch,
			record.Revision,
			record.ModifiedMarker(),
			string(record.Phase),
			record.LastStatus,
		}
		if rowError := csvWriter.Write(row); rowError != nil {
			return rowError
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
