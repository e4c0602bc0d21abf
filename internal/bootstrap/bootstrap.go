// Package bootstrap builds the bot from its configuration and runs it until
// the process is asked to stop.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/onevibe0405/Ferry/internal/commands"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/logging"
)

type Bootstrap struct {
	Config      *config.Config
	Components  *Components
	initialized bool
}

func New() *Bootstrap {
	return &Bootstrap{
		initialized: false,
	}
}

// Initialize loads envPath and configPath, starts logging and wires every
// component. Nothing connects to Discord yet.
func (b *Bootstrap) Initialize(configPath, envPath string) error {
	if err := b.loadConfig(configPath, envPath); err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	if err := b.initializeLogging(); err != nil {
		return fmt.Errorf("logging init failed: %w", err)
	}

	if err := b.wireComponents(); err != nil {
		return fmt.Errorf("component wiring failed: %w", err)
	}

	b.initialized = true
	logging.Info("Bootstrap complete")
	return nil
}

func (b *Bootstrap) loadConfig(configPath, envPath string) error {
	if err := config.LoadEnvFile(envPath); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg
	return nil
}

func (b *Bootstrap) initializeLogging() error {
	if err := ensureLogsDirectory(b.Config.Logging.File); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return logging.InitGlobalLogger(logging.ParseLevel(b.Config.Logging.Level), b.Config.Logging.File)
}

func ensureLogsDirectory(file string) error {
	if file == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(file), 0755)
}

func (b *Bootstrap) wireComponents() error {
	return Wire(b)
}

// Start connects the gateway, registers slash commands and blocks running
// the status server and watchdog until ctx is cancelled.
func (b *Bootstrap) Start(ctx context.Context) error {
	if !b.initialized {
		return fmt.Errorf("bootstrap not initialized")
	}
	c := b.Components

	if err := c.Session.Connect(ctx); err != nil {
		return err
	}
	if err := c.Session.RegisterCommands(commands.SlashCommands(c.Registry)); err != nil {
		logging.Warn("Slash command registration failed: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.Status != nil {
		addr := b.Config.Status.Addr
		g.Go(func() error { return c.Status.Run(gctx, addr) })
	}
	g.Go(func() error { return c.Watchdog.Run(gctx) })

	logging.Info("All components started")
	return g.Wait()
}

func (b *Bootstrap) Shutdown() error {
	if b.Components == nil {
		return logging.Close()
	}
	return Shutdown(b.Components)
}
