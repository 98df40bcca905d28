package flags

import "github.com/spf13/cobra"

const (
	// DefaultRootFlagName exposes the shared repository root flag name.
	DefaultRootFlagName = "root"
	// DefaultRootFlagUsage describes the shared repository root flag purpose.
	DefaultRootFlagUsage = "Repository roots to scan (repeatable)"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview operations without making changes"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Automatically confirm prompts"
)

// BranchFlagDefinition captures configuration for branch context flags.
type BranchFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// BranchFlagValues stores branch context flag values.
type BranchFlagValues struct {
	Name string
}

// BindBranchFlags attaches branch context flags to the provided command.
func BindBranchFlags(command *cobra.Command, defaults BranchFlagValues, definition BranchFlagDefinition) *BranchFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	if !definition.Enabled || len(definition.Name) == 0 {
		return &values
	}

	command.PersistentFlags().StringVar(&values.Name, definition.Name, defaults.Name, definition.Usage)
	return &values
}

// RootFlagDefinition captures configuration for repository root flags.
type RootFlagDefinition struct {
	Name       string
	Usage      string
	Enabled    bool
	Persistent bool
}

// RootFlagValues stores repository root flag values.
type RootFlagValues struct {
	Roots []string
}

// BindRootFlags attaches standard repository root flags to the provided command.

func BindRootFlags(command *cobra.Command, defaults RootFlagValues, definition RootFlagDefinition) *RootFlagValues {
	values := RootFlagValues{Roots: append([]string{}, defaults.Roots...)}
	if command == nil {
		return &values
	}
	if !definition.Enabled {
		return &values
	}
	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = DefaultRootFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = DefaultRootFlagUsage
	}

	targetSet := command.PersistentFlags()
	if !definition.Persistent {
		targetSet = command.Flags()
	}

	if targetSet.Lookup(flagName) == nil {
		targetSet.StringSliceVar(&values.Roots, flagName, values.Roots, flagUsage)
	}

	if definition.Persistent {
		if command.Flags().Lookup(flagName) == nil {
			if persistentFlag := targetSet.Lookup(flagName); persistentFlag != nil {
				command.Flags().AddFlag(persistentFlag)
			}
		}
	}
	return &values
}
