package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mj1618/nirctl/internal/app"
	"github.com/mj1618/nirctl/internal/config"
	"github.com/mj1618/nirctl/internal/logger"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/spf13/cobra"
)

// Process-wide state built lazily by the commands that need it.
var (
	cliApp    *app.App
	logCloser io.Closer
)

// loadConfig reads the config file named by --config.
func loadConfig() (config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	return config.Load(path)
}

// newLogger builds the CLI logger from the config and --verbose.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	log, closer, err := logger.New(cfg.LoggerConfig(verbose), os.Stderr)
	if err != nil {
		return nil, err
	}
	logCloser = closer
	slog.SetDefault(log)
	return log, nil
}

// getApp returns the shared App, building it on first use.
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cliApp != nil {
		return cliApp, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmdContext(cmd), app.Options{Config: cfg, Logger: log})
	if err != nil {
		return nil, err
	}
	cliApp = a
	return a, nil
}

func closeApp() {
	if cliApp != nil {
		_ = cliApp.Close()
		cliApp = nil
	}
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// targetFromArgs builds a target from "<kind> <value>" positional args.
func targetFromArgs(args []string, recursive bool) (model.TargetSpec, error) {
	if len(args) != 2 {
		return model.TargetSpec{}, fmt.Errorf("expected <kind> <value>, got %d argument(s)", len(args))
	}
	if args[1] == "" {
		return model.TargetSpec{}, fmt.Errorf("target value is empty")
	}
	return model.NewTargetSpec(args[0], args[1], recursive)
}

// targetFromFlags builds an optional filter from --type/--value/--recursive.
func targetFromFlags(cmd *cobra.Command) (*model.TargetSpec, error) {
	kind, _ := cmd.Flags().GetString("type")
	value, _ := cmd.Flags().GetString("value")
	recursive, _ := cmd.Flags().GetBool("recursive")
	if kind == "" && value == "" {
		return nil, nil
	}
	if kind == "" || value == "" {
		return nil, fmt.Errorf("--type and --value must be used together")
	}
	spec, err := model.NewTargetSpec(kind, value, recursive)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
