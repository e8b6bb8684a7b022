package list

import (
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked services and configuration",
		Long: `List costwatch configuration details.
Currently supports listing:
  - Tracked services and their optimization thresholds
  - Available AWS credential profiles`,
	}

	// Add subcommands
	cmd.AddCommand(NewServicesCmd())
	cmd.AddCommand(NewProfilesCmd())

	return cmd
}
