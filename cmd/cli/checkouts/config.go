package checkouts

import (
	"github.com/spf13/cobra"

	"github.com/AJacquin/ManaHg/internal/inventory"
	"github.com/AJacquin/ManaHg/internal/prefs"
	flagutils "github.com/AJacquin/ManaHg/internal/utils/flags"
)

const (
	configUseConstant           = "config"
	configShortDescription      = "Read or update display preferences"
	configLongDescription       = "config prints the persisted display preferences, updating the theme index or path rendering first when the matching flags are given."
	configThemeFlagName         = "theme"
	configThemeFlagUsage        = "Bundled theme index to persist"
	configShowFullPathFlagName  = "show-full-path"
	configShowFullPathFlagUsage = "Render full checkout paths instead of basenames"
	configToggleTrueLiteral     = "true"
)

// ConfigCommandBuilder assembles the config command.
type ConfigCommandBuilder struct {
	SettingsPathProvider SettingsPathProvider
}

// Build constructs the config command.
func (builder *ConfigCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   configUseConstant,
		Short: configShortDescription,
		Long:  configLongDescription,
		RunE:  builder.run,
	}

	command.Flags().Int(configThemeFlagName, inventory.DefaultThemeIndexConstant, configThemeFlagUsage)
	flagutils.AddToggleFlag(command.Flags(), nil, configShowFullPathFlagName, "", true, configShowFullPathFlagUsage)

	return command, nil
}

func (builder *ConfigCommandBuilder) run(command *cobra.Command, arguments []string) error {
	store, storeError := resolveSettingsStore(builder.SettingsPathProvider)
	if storeError != nil {
		return storeError
	}

	options := prefs.Options{}
	if command.Flags().Changed(configThemeFlagName) {
		themeIndex, _ := command.Flags().GetInt(configThemeFlagName)
		options.ThemeIndex = &themeIndex
	}
	if command.Flags().Changed(configShowFullPathFlagName) {
		showFullPath := command.Flags().Lookup(configShowFullPathFlagName).Value.String() == configToggleTrueLiteral
		options.ShowFullPath = &showFullPath
	}

	service, serviceError := prefs.NewService(prefs.Dependencies{
		Store:  store,
		Output: command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(options)
	return runError
}
