package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/domain"
)

// Error messages
const (
	ErrContainerUnavailable = "service container unavailable"
)

// Status messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoEnvironments           = "No environments configured"
	MsgNoTemplates              = "No templates registered. Run `devflow config init`."
)

// Verb actions
const (
	ActionSetup   = "setup"
	ActionClean   = "clean"
	ActionList    = "list"
	ActionFeature = "feature"
	ActionRelease = "release"
	ActionHotfix  = "hotfix"
)

// exactArgs is cobra.ExactArgs reporting through domain.ErrValidation.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return domain.ValidationErrorf("%s expects %d argument(s), got %d. Usage: %s", cmd.CommandPath(), n, len(args), usage)
		}
		return nil
	}
}

// rangeArgs is cobra.RangeArgs reporting through domain.ErrValidation.
func rangeArgs(lo, hi int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return domain.ValidationErrorf("%s expects %d to %d argument(s), got %d. Usage: %s", cmd.CommandPath(), lo, hi, len(args), usage)
		}
		return nil
	}
}
