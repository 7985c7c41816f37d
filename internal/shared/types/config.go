package types

// Config represents the application configuration that can be loaded from a file.
// Ponteiros distinguem "ausente" de "zero" para que o merge com as flags seja correto.
type Config struct {
	Profile           string   `json:"profile" yaml:"profile" toml:"profile"`
	Regions           []string `json:"regions" yaml:"regions" toml:"regions"`
	LogFile           string   `json:"log_file" yaml:"log_file" toml:"log_file"`
	MaxRetries        *int     `json:"max_retries" yaml:"max_retries" toml:"max_retries"`
	RetryDelay        string   `json:"retry_delay" yaml:"retry_delay" toml:"retry_delay"`
	CheckDependencies *bool    `json:"check_dependencies" yaml:"check_dependencies" toml:"check_dependencies"`
	DryRun            *bool    `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	ReportName        string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType        []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir               string   `json:"dir" yaml:"dir" toml:"dir"`
}
