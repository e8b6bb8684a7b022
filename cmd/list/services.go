package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"costwatch/internal/monitor"
)

// NewServicesCmd creates and returns the services command
func NewServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the tracked services",
		Long: `List the AWS services whose costs are aggregated, together with the
monthly cost threshold above which each one gets an optimization
recommendation.`,
		Example: `  # List all tracked services
  costwatch list services`,
		RunE: func(cmd *cobra.Command, args []string) error {
			thresholds := monitor.Thresholds()

			fmt.Println("Tracked services:")
			for _, service := range monitor.DefaultTrackedServices {
				if threshold, ok := thresholds[service]; ok {
					fmt.Printf("  %-32s threshold $%.2f/month\n", service, threshold)
					continue
				}
				fmt.Printf("  %s\n", service)
			}
			return nil
		},
	}

	return cmd
}
