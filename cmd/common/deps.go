// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/config"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/spf13/viper"
)

// Viper keys bound to the root command's persistent flags.
const (
	KeyConfig = "config"
	KeyDebug  = "app.debug"
)

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger logger.Logger
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}

// NewCommandDeps loads the configuration named by --config and creates the
// logger. --debug overrides the configured log level.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load(viper.GetString(KeyConfig))
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	if viper.GetBool(KeyDebug) {
		cfg.App.Debug = true
		cfg.SetDefaults()
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{Logger: log, Config: cfg}
	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}
	return deps, nil
}
