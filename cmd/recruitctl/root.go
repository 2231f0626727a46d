package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/recruitflow-ingest/internal/di"
	"github.com/spf13/cobra"
)

const (
	app = "recruitctl"
)

var (
	// Used for flags.
	cliOpts = &di.CLIOptions{}

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "recruitctl runs and inspects the candidate ingestion pipeline",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cliOpts.ConfigFile, "config", "", "a config file (default is config.yaml in the standard locations)")
	rootCmd.PersistentFlags().BoolVarP(&cliOpts.Debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&cliOpts.JSONLog, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringVar(&cliOpts.Provider, "provider", "", "LLM provider override (genai, gemini, openai, bedrock)")
	rootCmd.PersistentFlags().StringArrayVar(&cliOpts.Overrides, "set", nil, "configuration override as key=value, may be repeated")
}

// invoke builds the container and runs fn with its dependencies injected
func invoke(fn interface{}) error {
	container, err := di.BuildCLIContainer(cliOpts)
	if err != nil {
		return err
	}
	return container.Invoke(fn)
}
