package checkouts

import (
	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/scan"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
)

const (
	scanUseConstant         = "scan [root ...]"
	scanShortDescription    = "Discover Mercurial checkouts under the given roots"
	scanLongDescription     = "scan walks the provided roots for .hg working copies and adds newly discovered checkouts to the tracked inventory."
	scanDryRunFlagName      = "dry-run"
	scanDryRunFlagUsageText = "Preview which checkouts would be tracked without saving"
)

// ScanCommandBuilder assembles the scan command.
type ScanCommandBuilder struct {
	Discoverer            shared.RepositoryDiscoverer
	SettingsPathProvider  SettingsPathProvider
	ConfigurationProvider func() ScanConfiguration

	rootFlagValues *flagutils.RootFlagValues
}

// Build constructs the scan command.
func (builder *ScanCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   scanUseConstant,
		Short: scanShortDescription,
		Long:  scanLongDescription,
		RunE:  builder.run,
	}

	command.Flags().Bool(scanDryRunFlagName, false, scanDryRunFlagUsageText)
	builder.rootFlagValues = flagutils.BindRootFlags(command, flagutils.RootFlagValues{}, flagutils.RootFlagDefinition{Enabled: true})

	return command, nil
}

func (builder *ScanCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveScanConfiguration(builder.ConfigurationProvider)

	dryRun := configuration.DryRun
	if command.Flags().Changed(scanDryRunFlagName) {
		dryRun, _ = command.Flags().GetBool(scanDryRunFlagName)
	}

	requestedRoots := append([]string{}, arguments...)
	if builder.rootFlagValues != nil {
		requestedRoots = append(requestedRoots, builder.rootFlagValues.Roots...)
	}
	roots := determineScanRoots(requestedRoots, configuration.Roots)

	store, storeError := resolveSettingsStore(builder.SettingsPathProvider)
	if storeError != nil {
		return storeError
	}

	repositoryDiscoverer := dependencies.ResolveRepositoryDiscoverer(builder.Discoverer)

	service, serviceError := scan.NewService(scan.Dependencies{
		Discoverer: repositoryDiscoverer,
		Store:      store,
		Reporter:   shared.NewWriterReporter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	_, scanError := service.Scan(scan.Options{Roots: roots, DryRun: dryRun})
	return scanError
}
