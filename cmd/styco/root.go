package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/styco/pkg/config"
	"github.com/gnana997/styco/pkg/manifest"
	"github.com/gnana997/styco/pkg/parser"
	"github.com/gnana997/styco/pkg/styco"
	"github.com/gnana997/styco/pkg/util"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "styco",
	Short: "Extract inline JSX styles into styled components",
	Long: `styco turns the inline style object of a JSX element into a styled
component declaration, renames the element to use it and adds the styled
import for the library found in package.json.

It also lists refactorable style sites in a workspace, watches them as
files change and serves the refactor as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .styco/config.yaml or .styco/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize output: auto, always, never")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app holds what every command shares. Close releases it.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	parser     *parser.ParserManager
	detector   *manifest.Detector
	refactorer *styco.Refactorer
}

func newApp(cmd *cobra.Command) (*app, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	bootstrap := util.NewLogger(util.LoggerConfig{Level: util.LevelWarn, Output: cmd.ErrOrStderr()})
	cfg, err := config.Load(configPath, dir, bootstrap)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	logger := util.NewLogger(lc)
	util.SetDefault(logger)

	pm := parser.NewParserManager(logger)
	detector, err := manifest.NewDetector(0, logger)
	if err != nil {
		pm.Close()
		return nil, fmt.Errorf("creating manifest detector: %w", err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		parser:     pm,
		detector:   detector,
		refactorer: styco.NewRefactorer(pm, detector, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.parser.Close(); err != nil {
		a.logger.Warn("failed to close parser manager", "error", err)
	}
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
