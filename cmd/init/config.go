package init

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfigContent = `# costwatch Configuration File

# AWS Configuration
aws:
  profile: default  # AWS profile to use (supports SSO profiles)
  region: us-east-1  # Region for all service clients

# Application Configuration
app:
  name: marketing-site  # Application name; also the expected budget name
  max_workers: 4  # Maximum number of concurrent workers
  log_format: text  # Log output format (text or json)
  log_level: INFO  # Set logging level (DEBUG, INFO, WARN, ERROR)

# Budget Configuration
budget:
  monthly_limit: 10.0  # Monthly budget limit in USD
  alert_threshold: 0.8  # Fraction of the limit that raises a WARNING

# Alert Configuration
alert:
  sns_topic_arn: ""  # SNS topic ARN for alerts; empty disables dispatch

# Report Configuration
report:
  output: filesystem  # Report destination (filesystem or s3)
  dir: reports  # Directory for filesystem report output
  bucket: ""  # S3 bucket name (required when output=s3)
  bucket_region: ""  # S3 bucket region (required when output=s3)
`

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create a default config.yaml file",
		Long: `Create a default config.yaml file with recommended settings.

The file will be created in the current directory by default.
You can specify a different location using the --output flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "config.yaml"
			}
			return writeDefaultFile(output, defaultConfigContent, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: ./config.yaml)")

	return cmd
}

// writeDefaultFile writes content to path, refusing to overwrite an
// existing file unless force is set
func writeDefaultFile(path, content string, force bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !force {
		return fmt.Errorf("file %s already exists. Use --force to overwrite", absPath)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Created file: %s\n", absPath)
	return nil
}
