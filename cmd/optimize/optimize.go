package optimize

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"costwatch/cmd/commands"
)

// NewOptimizeCmd creates the optimize command
func NewOptimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Suggest cost optimizations for the tracked services",
		Long: `Compare each tracked service's current-month cost against its fixed
threshold and print a recommendation for every service above it, followed
by the general best-practice checklist.`,
		Example: `  # Print optimization recommendations
  costwatch optimize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run()
		},
	}
}

// Run executes the optimization path
func Run() error {
	mon, err := commands.NewMonitor()
	if err != nil {
		return err
	}

	rep := mon.OptimizationReport(context.Background())

	header := color.New(color.Bold)
	if len(rep.Recommendations) == 0 {
		fmt.Println("No service is above its optimization threshold")
	} else {
		header.Println("Recommendations")
		for _, rec := range rep.Recommendations {
			fmt.Printf("  %s ($%.2f/month)\n", rec.Service, rec.Cost)
			fmt.Printf("    %s\n", rec.Recommendation)
			fmt.Printf("    Impact: %s, Effort: %s\n", rec.Impact, rec.Effort)
		}
	}

	header.Println("\nGeneral best practices")
	for _, bp := range rep.BestPractices {
		fmt.Printf("  - %s\n", bp)
	}

	return nil
}
