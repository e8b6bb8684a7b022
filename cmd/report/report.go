package report

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"costwatch/cmd/commands"
	"costwatch/internal/logging"
	"costwatch/internal/monitor"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Build and persist the monthly cost report",
		Long: `Fetch current-period costs, the daily trend, the next-period forecast and
the account budget, compose the monthly cost report, print a summary and
write it as cost-report-<YYYY-MM>.json to the configured destination.`,
		Example: `  # Build this month's report
  costwatch report

  # Write the report to S3 instead of the local reports directory
  costwatch report --config config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run()
		},
	}
}

// Run executes the report path. Individual fetch failures degrade to empty
// data inside the monitor; only composing or persisting the report can
// fail here.
func Run() error {
	mon, err := commands.NewMonitor()
	if err != nil {
		return err
	}

	ctx := context.Background()

	accountID, err := mon.ResolveAccountID(ctx)
	if err != nil {
		// Without an identity the budget lookup is skipped; the report
		// still gets built from the remaining fetches.
		logging.FetchFailed("account-identity", err)
		accountID = ""
	}

	rep := mon.BuildReport(ctx, accountID)

	path, err := commands.NewReportWriter().Write(rep.BillingPeriod, rep)
	if err != nil {
		return fmt.Errorf("failed to persist report: %w", err)
	}
	logging.ReportWritten(path, rep.BillingPeriod, rep.Summary.TotalCost)

	printReport(rep)
	return nil
}

func printReport(rep *monitor.CostReport) {
	header := color.New(color.Bold)
	header.Printf("\nCost report for %s\n", rep.BillingPeriod)

	statusColor := color.New(color.FgGreen)
	if rep.Summary.Status == monitor.StatusWarning {
		statusColor = color.New(color.FgYellow)
	}

	fmt.Printf("  Total cost:   $%.2f\n", rep.Summary.TotalCost)
	fmt.Printf("  Budget limit: $%.2f\n", rep.Summary.BudgetLimit)
	fmt.Printf("  Budget used:  %s\n", rep.Summary.PercentUsed)
	fmt.Printf("  Status:       %s\n", statusColor.Sprint(rep.Summary.Status))

	if len(rep.ServiceBreakdown) > 0 {
		header.Println("\nService breakdown")
		for _, sc := range rep.ServiceBreakdown {
			fmt.Printf("  %-32s $%8.2f  (%.1f%%)\n", sc.Service, sc.Cost, sc.Percentage)
		}
	}

	if len(rep.DailyTrend) > 0 {
		header.Println("\nDaily trend (last 7 days)")
		for _, dc := range rep.DailyTrend {
			fmt.Printf("  %s  $%.2f\n", dc.Date, dc.Cost)
		}
	}

	if rep.Forecast != nil {
		header.Println("\nForecast")
		fmt.Printf("  Next period: $%.2f (%s)\n", rep.Forecast.Estimate, rep.Forecast.Confidence)
	}
	fmt.Println()
}
