package types

import "time"

// Valores padrão usados quando nem flag nem arquivo de configuração definem o campo.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 5 * time.Second
	DefaultLogFile    = "vpc_deletion.log"
)

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile        string
	Profile           string
	Regions           []string
	LogFile           string
	MaxRetries        int
	RetryDelay        time.Duration
	CheckDependencies bool
	DryRun            bool
	ReportName        string
	ReportType        []string
	Dir               string
}
