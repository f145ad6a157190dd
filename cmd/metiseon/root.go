package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/metiseon/landing/internal/config"
	"github.com/metiseon/landing/internal/di"
	"github.com/metiseon/landing/pkg/logger"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "metiseon",
		Short:         "Build, publish and inspect the Metiseon site",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newPublishCmd(opts))
	cmd.AddCommand(newCopyCmd(opts))
	cmd.AddCommand(newTraceCmd(opts))
	cmd.AddCommand(newSnippetsCmd(opts))

	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) zerolog.Logger {
	return logger.New(logger.Config{Level: o.logLevel, Pretty: true, Output: cmd.ErrOrStderr()})
}

// wire loads configuration from the environment and builds the container
func (o *rootOptions) wire(ctx context.Context, cmd *cobra.Command) (*di.Container, *di.JobInstances, zerolog.Logger, error) {
	log := o.logger(cmd)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, log, fmt.Errorf("failed to load configuration: %w", err)
	}

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return nil, nil, log, err
	}
	return container, jobs, log, nil
}
