package config

// GlobalConfig holds the global configuration for the application
type GlobalConfig struct {
	// Profile is the AWS profile to use
	Profile string

	// Region is the AWS region for all service clients
	Region string

	// AppName identifies the application; also the expected budget name
	AppName string

	// MonthlyBudget is the monthly budget limit in USD
	MonthlyBudget float64

	// AlertThreshold is the fraction of the budget limit above which a WARNING is raised
	AlertThreshold float64

	// SNSTopicARN is the notification destination; empty disables alert dispatch
	SNSTopicARN string

	// MaxWorkers defines the maximum number of concurrent workers
	MaxWorkers int

	// LogFormat is the format for logging
	LogFormat string

	// ReportOutput is where reports are written (filesystem or s3)
	ReportOutput string

	// ReportDir is the directory for filesystem report output
	ReportDir string

	// ReportBucket is the S3 bucket for report output (when ReportOutput is s3)
	ReportBucket string

	// ReportBucketRegion is the region of ReportBucket
	ReportBucketRegion string
}

// Config is the global configuration instance
var Config = &GlobalConfig{
	Profile:        "default",
	Region:         "us-east-1",
	AppName:        "marketing-site",
	MonthlyBudget:  10.0,
	AlertThreshold: 0.8,
	MaxWorkers:     4, // One worker per independent fetch in the report path
}
