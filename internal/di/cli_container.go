package di

import (
	"fmt"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/logging"
)

// CLIOptions carries the global flags of the command line tool
type CLIOptions struct {
	ConfigFile string
	Debug      bool
	JSONLog    bool

	// Provider overrides llm.provider when set
	Provider string

	// Overrides are key=value pairs applied on top of the configuration
	Overrides []string
}

// BuildCLIContainer creates and configures a dependency injection container
// for the command line tool
func BuildCLIContainer(opts *CLIOptions) (*dig.Container, error) {
	container := dig.New()

	// Register options
	if err := container.Provide(func() *CLIOptions { return opts }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(opts *CLIOptions) (*zap.Logger, error) {
		return logging.InitConsoleLogger(opts.Debug, opts.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(opts *CLIOptions, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		if err := applyOverrides(cfg, opts); err != nil {
			return nil, err
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	return container, nil
}

// applyOverrides sets the command line overrides on the configuration
func applyOverrides(cfg *config.Config, opts *CLIOptions) error {
	if opts.Provider != "" {
		cfg.Set("llm.provider", opts.Provider)
	}
	for _, kv := range opts.Overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid override %q, expected key=value", kv)
		}
		cfg.Set(strings.TrimSpace(key), value)
	}
	return nil
}
