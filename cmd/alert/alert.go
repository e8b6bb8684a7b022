package alert

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"costwatch/cmd/commands"
	"costwatch/internal/monitor"
)

// NewAlertCmd creates the alert command
func NewAlertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alert",
		Short: "Check current spend against the budget and notify",
		Long: `Recompute the current month's total cost, classify it against the
configured budget limit and alert threshold, and publish at most one SNS
notification when spend is at WARNING or CRITICAL level. Without a
configured SNS topic the check still runs but nothing is published.`,
		Example: `  # Check the budget and dispatch an alert if needed
  costwatch alert`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run()
		},
	}
}

// Run executes the alert path
func Run() error {
	mon, err := commands.NewMonitor()
	if err != nil {
		return err
	}

	a := mon.CheckAlerts(context.Background())

	switch a.Severity {
	case monitor.SeverityCritical:
		color.New(color.FgRed, color.Bold).Printf("CRITICAL: %s\n", a.Message)
	case monitor.SeverityWarning:
		color.New(color.FgYellow).Printf("WARNING: %s\n", a.Message)
	default:
		fmt.Println("Spend is within budget")
	}

	return nil
}
