package init

import (
	"github.com/spf13/cobra"
)

const defaultEnvContent = `# costwatch environment variables
# Every config.yaml key can also be set through the environment with the
# COSTWATCH_ prefix; dots become underscores.

COSTWATCH_AWS_PROFILE=default
COSTWATCH_AWS_REGION=us-east-1
COSTWATCH_APP_NAME=marketing-site
COSTWATCH_APP_LOG_FORMAT=text
COSTWATCH_APP_LOG_LEVEL=INFO
COSTWATCH_BUDGET_MONTHLY_LIMIT=10.0
COSTWATCH_BUDGET_ALERT_THRESHOLD=0.8
COSTWATCH_ALERT_SNS_TOPIC_ARN=
COSTWATCH_REPORT_OUTPUT=filesystem
COSTWATCH_REPORT_DIR=reports
`

// NewEnvCmd creates the env subcommand
func NewEnvCmd() *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Create a default .env file",
		Long: `Create a default .env file listing every supported environment variable.

The file will be created in the current directory by default.
You can specify a different location using the --output flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = ".env"
			}
			return writeDefaultFile(output, defaultEnvContent, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: ./.env)")

	return cmd
}
