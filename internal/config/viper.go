package config

import (
	"fmt"
	"strings"

	"costwatch/internal/logging"

	"github.com/spf13/viper"
)

// InitConfig initializes the Viper configuration
func InitConfig() error {
	// Set config name and type
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config search paths
	viper.AddConfigPath(".") // Current directory only

	// Set environment variable prefix
	viper.SetEnvPrefix("COSTWATCH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults for all configuration values
	viper.SetDefault("aws.profile", "default")
	viper.SetDefault("aws.region", "us-east-1")
	viper.SetDefault("app.name", "marketing-site")
	viper.SetDefault("app.max_workers", 4)
	viper.SetDefault("app.log_format", "text")
	viper.SetDefault("app.log_level", "INFO")
	viper.SetDefault("budget.monthly_limit", 10.0)
	viper.SetDefault("budget.alert_threshold", 0.8)
	viper.SetDefault("alert.sns_topic_arn", "")
	viper.SetDefault("report.output", "filesystem")
	viper.SetDefault("report.dir", "reports")
	viper.SetDefault("report.bucket", "")
	viper.SetDefault("report.bucket_region", "")

	// Try to read config file but don't error if not found
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error if it's not a missing config file
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is okay, we'll use defaults and env vars
		logging.Debug("No config file found, using defaults and environment variables", nil)
	} else {
		logging.Debug("Loaded config file", map[string]interface{}{
			"path": viper.ConfigFileUsed(),
		})
	}

	return nil
}

// SetConfigFile sets a custom config file path and reloads the configuration
func SetConfigFile(configFile string) error {
	viper.SetConfigFile(configFile)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Load copies the effective viper values into the global config instance
func Load() {
	Config.Profile = viper.GetString("aws.profile")
	Config.Region = viper.GetString("aws.region")
	Config.AppName = viper.GetString("app.name")
	Config.MaxWorkers = viper.GetInt("app.max_workers")
	Config.LogFormat = viper.GetString("app.log_format")
	Config.MonthlyBudget = viper.GetFloat64("budget.monthly_limit")
	Config.AlertThreshold = viper.GetFloat64("budget.alert_threshold")
	Config.SNSTopicARN = viper.GetString("alert.sns_topic_arn")
	Config.ReportOutput = viper.GetString("report.output")
	Config.ReportDir = viper.GetString("report.dir")
	Config.ReportBucket = viper.GetString("report.bucket")
	Config.ReportBucketRegion = viper.GetString("report.bucket_region")
}
