package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "siteaudit"

	// ConfigFileName is the default config file name
	ConfigFileName = ".siteaudit.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SITEAUDIT"
)

// Exit codes returned by the command-line interface
const (
	// ExitSuccess means the run completed and the audit passed
	ExitSuccess = 0

	// ExitCheckFailed means the run completed but the audit did not meet
	// the configured threshold
	ExitCheckFailed = 1

	// ExitError means the run itself failed
	ExitError = 2
)
