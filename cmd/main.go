package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/onevibe0405/Ferry/internal/bootstrap"
	"github.com/onevibe0405/Ferry/internal/logging"
)

var (
	configPath string
	envPath    string
)

var rootCmd = &cobra.Command{
	Use:          "ferry",
	Short:        "Discord role and welcome bot",
	Long:         `Ferry runs custom role commands, autoroles and welcome messages for Discord servers.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.json", "path to the JSON config file")
	rootCmd.Flags().StringVar(&envPath, "env", ".env", "dotenv file loaded before the config")
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bootstrap.New()
	if err := b.Initialize(configPath, envPath); err != nil {
		return err
	}
	defer func() {
		if err := b.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	err := b.Start(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		logging.Critical("Bot stopped: %v", err)
		return err
	}
	logging.Info("Shutdown signal received")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
