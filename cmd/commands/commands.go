package commands

import (
	"fmt"

	awsinternal "costwatch/internal/aws"
	"costwatch/internal/config"
	"costwatch/internal/monitor"
	"costwatch/internal/output"
)

// MonitorConfig snapshots the global configuration into the explicit value
// the monitor is constructed with
func MonitorConfig() monitor.Config {
	return monitor.Config{
		AppName:        config.Config.AppName,
		BudgetLimit:    config.Config.MonthlyBudget,
		AlertThreshold: config.Config.AlertThreshold,
		SNSTopicARN:    config.Config.SNSTopicARN,
		MaxWorkers:     config.Config.MaxWorkers,
	}
}

// NewMonitor builds a Monitor with real AWS clients from the global
// configuration
func NewMonitor() (*monitor.Monitor, error) {
	sess, err := awsinternal.NewSession(config.Config.Profile, config.Config.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return monitor.New(MonitorConfig(), monitor.NewClients(sess)), nil
}

// NewReportWriter builds the report writer for the configured destination
func NewReportWriter() *output.Writer {
	return output.NewWriter(output.Config{
		Type:      output.Type(config.Config.ReportOutput),
		OutputDir: config.Config.ReportDir,
		S3Bucket:  config.Config.ReportBucket,
		S3Region:  config.Config.ReportBucketRegion,
		Profile:   config.Config.Profile,
	})
}
