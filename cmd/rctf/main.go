// Package main provides the entry point for rctf.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/abdullathedruid/rctf/internal/app"
	"github.com/abdullathedruid/rctf/internal/config"
	"github.com/abdullathedruid/rctf/internal/logging"
	"github.com/abdullathedruid/rctf/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, logLevel string

	cmd := &cobra.Command{
		Use:           "rctf",
		Short:         "Interactive shell for managing remote sessions",
		Args:          cobra.NoArgs,
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, logLevel)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (default <data dir>/config.yaml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

func run(ctx context.Context, configPath, logLevel string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// Ensure data directory exists
	if err := cfg.EnsureDataDir(); err != nil {
		return errors.WrapPrefix(err, "create data directory", 0)
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("starting", "version", version.Full(), "data_dir", cfg.DataDir)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	application, err := app.New(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
