package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/aws-vpc-cleaner/internal/adapter/driven/aws"
	"github.com/diillson/aws-vpc-cleaner/internal/adapter/driven/config"
	"github.com/diillson/aws-vpc-cleaner/internal/adapter/driven/export"
	"github.com/diillson/aws-vpc-cleaner/internal/adapter/driving/cli"
	"github.com/diillson/aws-vpc-cleaner/internal/application/usecase"
	"github.com/diillson/aws-vpc-cleaner/pkg/console"
	"github.com/diillson/aws-vpc-cleaner/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	awsRepo := aws.NewAWSRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()
	prompter := cli.NewLinePrompter(os.Stdin, os.Stdout)

	cleanupUseCase := usecase.NewCleanupUseCase(
		awsRepo,
		exportRepo,
		prompter,
		consoleImpl,
	)

	app.SetCleanupUseCase(cleanupUseCase)
	app.SetConfigRepository(configRepo)
	app.SetConsole(consoleImpl)

	// O primeiro Ctrl+C cancela o contexto (prompts e esperas entre tentativas);
	// depois disso o tratamento padrão volta e um segundo Ctrl+C encerra o processo.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := app.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
