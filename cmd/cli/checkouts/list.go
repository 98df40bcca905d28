package checkouts

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/overview"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
)

const (
	listUseConstant           = "list"
	listShortDescription      = "Render the tracked checkout dashboard"
	listLongDescription       = "list re-probes every tracked checkout and renders the inventory table with branch, revision, modified marker, phase, and last operation result."
	listSortFlagName          = "sort"
	listSortFlagDescription   = "Column to sort the dashboard by"
	listDescendingFlagName    = "descending"
	listDescendingFlagUsage   = "Sort the chosen column descending"
	listPathFlagName          = "path"
	listPathFlagUsage         = "Limit the dashboard to one tracked checkout"
	listFullPathFlagName      = "full-path"
	listFullPathFlagUsage     = "Show absolute checkout paths instead of basenames"
	listCSVFlagName           = "csv"
	listCSVFlagUsage          = "Emit comma-separated values instead of a table"
	listDefaultSortColumnName = "path"
	listToggleTrueLiteral     = "true"
	unknownSortColumnTemplate = "unknown sort column %q"
)

var listSortColumnNames = []string{"path", "branch", "revision", "modified", "phase", "status"}

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	LoggerProvider               LoggerProvider
	MercurialExecutor            shared.MercurialExecutor
	RepositoryManager            shared.RepositoryManager
	SettingsPathProvider         SettingsPathProvider
	HumanReadableLoggingProvider func() bool
	CommandEventObserverProvider CommandEventObserverProvider
	ConfigurationProvider        func() FleetConfiguration
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescription,
		Long:  listLongDescription,
		RunE:  builder.run,
	}

	sortUsage := flagutils.FormatChoiceUsage(listDefaultSortColumnName, listSortColumnNames, listSortFlagDescription)
	command.Flags().String(listSortFlagName, "", sortUsage)
	command.Flags().Bool(listDescendingFlagName, false, listDescendingFlagUsage)
	command.Flags().String(listPathFlagName, "", listPathFlagUsage)
	command.Flags().Bool(listCSVFlagName, false, listCSVFlagUsage)

	var fullPathTarget bool
	flagutils.AddToggleFlag(command.Flags(), &fullPathTarget, listFullPathFlagName, "", true, listFullPathFlagUsage)

	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveFleetConfiguration(builder.ConfigurationProvider)

	session, sessionError := newFleetSession(command, fleetWiring{
		LoggerProvider:               builder.LoggerProvider,
		MercurialExecutor:            builder.MercurialExecutor,
		RepositoryManager:            builder.RepositoryManager,
		SettingsPathProvider:         builder.SettingsPathProvider,
		HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		CommandEventObserverProvider: builder.CommandEventObserverProvider,
		Concurrency:                  configuration.Concurrency,
	})
	if sessionError != nil {
		return sessionError
	}

	options, optionsError := builder.resolveOptions(command)
	if optionsError != nil {
		return optionsError
	}

	service, serviceError := overview.NewService(overview.Dependencies{
		Store:      session.store,
		Dispatcher: session.dependencies.Dispatcher,
		Output:     command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *ListCommandBuilder) resolveOptions(command *cobra.Command) (overview.Options, error) {
	options := overview.Options{SortColumn: inventory.SortColumnPath, SortOrder: inventory.SortOrderNone}

	if command.Flags().Changed(listSortFlagName) {
		rawColumn, _ := command.Flags().GetString(listSortFlagName)
		column, parseError := inventory.ParseSortColumn(rawColumn)
		if parseError != nil {
			return overview.Options{}, fmt.Errorf(unknownSortColumnTemplate, rawColumn)
		}
		options.SortColumn = column
		options.SortOrder = inventory.SortOrderAscending
	}

	if descending, _ := command.Flags().GetBool(listDescendingFlagName); descending {
		options.SortOrder = inventory.SortOrderDescending
	}

	if command.Flags().Changed(listPathFlagName) {
		rawPath, _ := command.Flags().GetString(listPathFlagName)
		pathFilter, pathError := shared.ParseRepositoryPathOptional(checkoutHomeDirectoryExpander.Expand(strings.TrimSpace(rawPath)))
		if pathError != nil {
			return overview.Options{}, pathError
		}
		options.PathFilter = pathFilter
	}

	if command.Flags().Changed(listFullPathFlagName) {
		fullPathFlag := command.Flags().Lookup(listFullPathFlagName)
		if fullPathFlag != nil {
			fullPath := fullPathFlag.Value.String() == listToggleTrueLiteral
			options.ShowFullPath = &fullPath
		}
	}

	options.CSVOutput, _ = command.Flags().GetBool(listCSVFlagName)

	return options, nil
}
