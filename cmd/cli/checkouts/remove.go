package checkouts

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/repos/dependencies"
	"github.com/AJacquin/ManaHg/internal/repos/shared"
	"github.com/AJacquin/ManaHg/internal/scan"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
)

const (
	removeUseConstant          = "remove <path> [path ...]"
	removeShortDescription     = "Stop tracking checkouts"
	removeLongDescription      = "remove drops the given checkouts from the tracked inventory, confirming each path unless --yes is given or a prompt answers apply-to-all."
	removePathsRequiredMessage = "remove requires at least one checkout path"
)

// RemoveCommandBuilder assembles the remove command.
type RemoveCommandBuilder struct {
	Discoverer            shared.RepositoryDiscoverer
	SettingsPathProvider  SettingsPathProvider
	PrompterFactory       PrompterFactory
	ConfigurationProvider func() FleetConfiguration
}

// Build constructs the remove command.
func (builder *RemoveCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   removeUseConstant,
		Short: removeShortDescription,
		Long:  removeLongDescription,
		RunE:  builder.run,
	}

	command.Flags().BoolP(flagutils.AssumeYesFlagName, flagutils.AssumeYesFlagShorthand, false, flagutils.AssumeYesFlagUsage)

	return command, nil
}

func (builder *RemoveCommandBuilder) run(command *cobra.Command, arguments []string) error {
	paths := checkoutPathSanitizer.Sanitize(arguments)
	if len(paths) == 0 {
		_ = displayCommandHelp(command)
		return errors.New(removePathsRequiredMessage)
	}

	configuration := resolveFleetConfiguration(builder.ConfigurationProvider)

	assumeYes := configuration.AssumeYes
	if command.Flags().Changed(flagutils.AssumeYesFlagName) {
		assumeYes, _ = command.Flags().GetBool(flagutils.AssumeYesFlagName)
	}

	store, storeError := resolveSettingsStore(builder.SettingsPathProvider)
	if storeError != nil {
		return storeError
	}

	prompter := resolvePrompter(builder.PrompterFactory, command)
	cascadingPrompter := newCascadingConfirmationPrompter(prompter, false)

	service, serviceError := scan.NewService(scan.Dependencies{
		Discoverer: dependencies.ResolveRepositoryDiscoverer(builder.Discoverer),
		Store:      store,
		Prompter:   cascadingPrompter,
		Reporter:   shared.NewWriterReporter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	_, removeError := service.Remove(scan.RemoveOptions{Paths: paths, Confirmation: shared.ConfirmationPolicyFromBool(assumeYes)})
	return removeError
}
