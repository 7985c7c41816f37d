package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/aws-vpc-cleaner/pkg/version"

	"github.com/diillson/aws-vpc-cleaner/internal/application/usecase"
	"github.com/diillson/aws-vpc-cleaner/internal/domain/repository"
	"github.com/diillson/aws-vpc-cleaner/internal/shared/types"
	"github.com/spf13/cobra"
)

// LogConsole é o console com suporte a arquivo de log.
type LogConsole interface {
	types.ConsoleInterface
	OpenLogFile(path string) error
	Close() error
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd        *cobra.Command
	cleanupUseCase *usecase.CleanupUseCase
	configRepo     repository.ConfigRepository
	console        LogConsole
	version        string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	// Erros de argumento são impressos uma vez pelo main, sem o bloco de uso.
	rootCmd := &cobra.Command{
		Use:           "aws-vpc-cleaner",
		Short:         "Delete the default VPC of every region of an AWS account",
		Long:          "Lists the local AWS profiles, finds the default VPC in each enabled region and deletes them after an explicit \"yes\".",
		Version:       formattedVersion,
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS VPC Cleaner version: %s\n" .Version}}`)

	defaults := usecase.DefaultRetryPolicy()

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile to use (skips the interactive menu)")
	rootCmd.PersistentFlags().StringSliceP("regions", "r", nil, "Only look at these regions (comma-separated)")
	rootCmd.PersistentFlags().StringP("log-file", "l", types.DefaultLogFile, "File that receives a copy of every log event (empty disables it)")
	rootCmd.PersistentFlags().Int("max-retries", defaults.MaxRetries, "Retries after a failed VPC deletion")
	rootCmd.PersistentFlags().Duration("retry-delay", defaults.Delay, "Wait between deletion retries")
	rootCmd.PersistentFlags().Bool("check-dependencies", false, "Count the resources still attached to each default VPC before asking for confirmation")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Only list the default VPCs, never delete them")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the run report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application; ctx is cancelled on interrupt.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() *types.CLIArgs {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profile, _ := flags.GetString("profile")
	regions, _ := flags.GetStringSlice("regions")
	logFile, _ := flags.GetString("log-file")
	maxRetries, _ := flags.GetInt("max-retries")
	retryDelay, _ := flags.GetDuration("retry-delay")
	checkDependencies, _ := flags.GetBool("check-dependencies")
	dryRun, _ := flags.GetBool("dry-run")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")

	return &types.CLIArgs{
		ConfigFile:        configFile,
		Profile:           profile,
		Regions:           regions,
		LogFile:           logFile,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		CheckDependencies: checkDependencies,
		DryRun:            dryRun,
		ReportName:        reportName,
		ReportType:        reportType,
		Dir:               dir,
	}
}

// mergeConfig aplica o arquivo de configuração. Flags passadas explicitamente
// têm precedência sobre o arquivo.
func (app *CLIApp) mergeConfig(args *types.CLIArgs, cfg *types.Config) error {
	if cfg == nil {
		return nil
	}
	changed := app.rootCmd.Flags().Changed

	if !changed("profile") && cfg.Profile != "" {
		args.Profile = cfg.Profile
	}
	if !changed("regions") && len(cfg.Regions) > 0 {
		args.Regions = cfg.Regions
	}
	if !changed("log-file") && cfg.LogFile != "" {
		args.LogFile = cfg.LogFile
	}
	if !changed("max-retries") && cfg.MaxRetries != nil {
		args.MaxRetries = *cfg.MaxRetries
	}
	if !changed("retry-delay") && cfg.RetryDelay != "" {
		delay, err := time.ParseDuration(cfg.RetryDelay)
		if err != nil {
			return fmt.Errorf("invalid retry_delay in config file: %w", err)
		}
		args.RetryDelay = delay
	}
	if !changed("check-dependencies") && cfg.CheckDependencies != nil {
		args.CheckDependencies = *cfg.CheckDependencies
	}
	if !changed("dry-run") && cfg.DryRun != nil {
		args.DryRun = *cfg.DryRun
	}
	if !changed("report-name") && cfg.ReportName != "" {
		args.ReportName = cfg.ReportName
	}
	if !changed("report-type") && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if !changed("dir") && cfg.Dir != "" {
		args.Dir = cfg.Dir
	}
	return nil
}

// resolveDir converte o diretório dos relatórios em caminho absoluto.
func resolveDir(args *types.CLIArgs) error {
	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		args.Dir = cwd
		return nil
	}

	absDir, err := filepath.Abs(args.Dir)
	if err != nil {
		return err
	}
	args.Dir = absDir
	return nil
}

func validateArgs(args *types.CLIArgs) error {
	if args.MaxRetries < 0 {
		return fmt.Errorf("max-retries must not be negative, got %d", args.MaxRetries)
	}
	if args.RetryDelay < 0 {
		return fmt.Errorf("retry-delay must not be negative, got %s", args.RetryDelay)
	}
	for _, reportType := range args.ReportType {
		switch strings.ToLower(reportType) {
		case "csv", "json", "pdf":
		default:
			return fmt.Errorf("%w: %s", types.ErrUnsupportedReportType, reportType)
		}
	}
	return nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner(cmd.OutOrStdout(), app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs := app.parseArgs()

	if cliArgs.ConfigFile != "" && app.configRepo != nil {
		cfg, err := app.configRepo.LoadConfigFile(cliArgs.ConfigFile)
		if err != nil {
			return err
		}
		if err := app.mergeConfig(cliArgs, cfg); err != nil {
			return err
		}
	}

	if err := resolveDir(cliArgs); err != nil {
		return err
	}
	if err := validateArgs(cliArgs); err != nil {
		return err
	}

	if cliArgs.LogFile != "" && app.console != nil {
		if err := app.console.OpenLogFile(cliArgs.LogFile); err != nil {
			app.console.LogWarning("%v; continuing without a log file.", err)
		} else {
			defer app.console.Close()
		}
	}

	// Falhas de AWS não alteram o código de saída.
	app.cleanupUseCase.Run(cmd.Context(), cliArgs)
	return nil
}

// SetCleanupUseCase sets the cleanup use case for the CLI app.
func (app *CLIApp) SetCleanupUseCase(useCase *usecase.CleanupUseCase) {
	app.cleanupUseCase = useCase
}

// SetConfigRepository sets the loader used for --config-file.
func (app *CLIApp) SetConfigRepository(configRepo repository.ConfigRepository) {
	app.configRepo = configRepo
}

// SetConsole sets the console whose log file follows --log-file.
func (app *CLIApp) SetConsole(console LogConsole) {
	app.console = console
}
