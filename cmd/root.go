package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"costwatch/cmd/alert"
	initCmd "costwatch/cmd/init"
	"costwatch/cmd/list"
	"costwatch/cmd/optimize"
	"costwatch/cmd/report"
	"costwatch/cmd/version"
	"costwatch/internal/config"
	"costwatch/internal/logging"
)

// persistentFlagBindings maps viper keys to the root command's persistent
// flag names
var persistentFlagBindings = map[string]string{
	"aws.profile":            "profile",
	"aws.region":             "region",
	"app.name":               "app-name",
	"app.max_workers":        "max-workers",
	"app.log_format":         "log-format",
	"app.log_level":          "log-level",
	"budget.monthly_limit":   "budget",
	"budget.alert_threshold": "alert-threshold",
	"alert.sns_topic_arn":    "sns-topic",
	"report.output":          "report-output",
	"report.dir":             "report-dir",
	"report.bucket":          "bucket",
	"report.bucket_region":   "bucket-region",
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	var configFile string

	// Initialize config
	if err := config.InitConfig(); err != nil {
		return err
	}

	rootCmd := &cobra.Command{
		Use:   "costwatch",
		Short: "costwatch - AWS cost monitoring for a static site",
		Long: `costwatch monitors the AWS spend of the services behind a static website.
It builds a monthly cost report, checks spend against a budget and
dispatches alerts, and suggests per-service cost optimizations.

Run without a subcommand to execute report, alert and optimize in
sequence.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Version and help never need configuration
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Set config file if specified
			if configFile != "" {
				if err := config.SetConfigFile(configFile); err != nil {
					return err
				}
			}

			// Flags take precedence over env vars and the config file
			for key, flagName := range persistentFlagBindings {
				if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flagName)); err != nil {
					return err
				}
			}
			config.Load()

			// Configure logging based on the effective config
			logFormat := logging.Text
			if config.Config.LogFormat == "json" {
				logFormat = logging.JSON
			}
			logging.Configure(logging.LogConfig{
				Level:  logging.ParseLevel(viper.GetString("app.log_level")),
				Format: logFormat,
			})

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll()
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("profile", "p", "default", "AWS profile to use (supports SSO profiles)")
	rootCmd.PersistentFlags().String("region", "us-east-1", "AWS region for all service clients")
	rootCmd.PersistentFlags().String("app-name", "marketing-site", "Application name; also the expected budget name")
	rootCmd.PersistentFlags().Float64("budget", 10.0, "Monthly budget limit in USD")
	rootCmd.PersistentFlags().Float64("alert-threshold", 0.8, "Fraction of the budget limit that raises a WARNING")
	rootCmd.PersistentFlags().String("sns-topic", "", "SNS topic ARN for alerts (empty disables dispatch)")
	rootCmd.PersistentFlags().Int("max-workers", 4, "Maximum number of concurrent workers")
	rootCmd.PersistentFlags().String("log-format", "text", "Log output format (text or json)")
	rootCmd.PersistentFlags().String("log-level", "INFO", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("report-output", "filesystem", "Report destination (filesystem or s3)")
	rootCmd.PersistentFlags().String("report-dir", "reports", "Directory for filesystem report output")
	rootCmd.PersistentFlags().String("bucket", "", "S3 bucket for report output (required when --report-output=s3)")
	rootCmd.PersistentFlags().String("bucket-region", "", "S3 bucket region (required when --report-output=s3)")

	// Add commands
	rootCmd.AddCommand(report.NewReportCmd())
	rootCmd.AddCommand(alert.NewAlertCmd())
	rootCmd.AddCommand(optimize.NewOptimizeCmd())
	rootCmd.AddCommand(list.NewListCmd())
	rootCmd.AddCommand(initCmd.NewInitCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd.Execute()
}

// runAll executes report, alert and optimize in sequence. A failed stage is
// logged and the next stage still runs; the run as a whole fails if any
// stage did.
func runAll() error {
	stages := []struct {
		name string
		run  func() error
	}{
		{"report", report.Run},
		{"alert", alert.Run},
		{"optimize", optimize.Run},
	}

	var failed []string
	for _, stage := range stages {
		if err := stage.run(); err != nil {
			logging.Error("Stage failed", err, map[string]interface{}{
				"stage": stage.name,
			})
			failed = append(failed, stage.name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("stages failed: %s", strings.Join(failed, ", "))
	}
	return nil
}
