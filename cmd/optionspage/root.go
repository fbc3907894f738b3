package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-optionspage/internal/app"
	"github.com/goliatone/go-optionspage/internal/config"
)

var (
	version = "dev"

	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "optionspage",
	Short: "Admin settings pages built from declarative definitions",
	Long: `optionspage builds admin settings pages from YAML or JSON definitions:
tabs, sections and typed fields rendered as an options form, persisted per
tab through a pluggable store and validated by configurable filters.

Quick start:
  optionspage serve                        # Serve pages over HTTP
  optionspage render theme-options         # Print a page as HTML
  optionspage edit theme-options --tab social
  optionspage settings list`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "optionspage.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
}

// loadConfig reads the config file, falling back to defaults when it does not
// exist.
func loadConfig() (*config.Holder, zerolog.Logger, error) {
	holder, err := config.NewHolder(cfgFile, zerolog.Nop())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logging := holder.Get().Logging
	if logLevel != "" {
		logging.Level = logLevel
	}
	logger := config.NewLogger(logging, os.Stderr)
	holder.SetLogger(logger)
	return holder, logger, nil
}

// openApp wires the application for one command. Callers must Close it.
func openApp(ctx context.Context) (*app.App, error) {
	holder, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, holder, logger)
}
