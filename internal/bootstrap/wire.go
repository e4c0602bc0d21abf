package bootstrap

import (
	"context"
	"time"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/commands"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/database"
	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/metrics"
	"github.com/onevibe0405/Ferry/internal/state"
	"github.com/onevibe0405/Ferry/internal/status"
	"github.com/onevibe0405/Ferry/internal/watchdog"
	"github.com/onevibe0405/Ferry/internal/welcome"
)

type Components struct {
	Store    *config.Store
	DB       *database.Database
	Session  *bot.Session
	Client   bot.Client
	Registry *commands.Registry
	Handler  *commands.Handler
	Reactor  *welcome.Reactor
	Runtime  *state.Runtime

	// Monitoring
	Metrics  *metrics.MetricsRegistry
	Watchdog *watchdog.Watchdog
	Status   *status.Server
}

func Wire(b *Bootstrap) error {
	logging.Info("Wiring components...")
	cfg := b.Config

	var seed []string
	if cfg.Bot.OwnerID != "" {
		seed = append(seed, cfg.Bot.OwnerID)
	}
	store := config.NewStore(cfg.Store, seed...)
	store.Load()
	logging.Info("Store loaded from %s", cfg.Store.DataFile)

	var db *database.Database
	if cfg.Database.Path != "" {
		if err := database.Initialize(cfg.Database.Path); err != nil {
			logging.Warn("Action log disabled: %v", err)
		} else {
			db = database.GetDB()
			logging.Info("Database opened at %s", cfg.Database.Path)
		}
	}

	session, err := bot.Initialize(cfg.Bot)
	if err != nil {
		database.Close()
		return err
	}
	client := session.Client()

	metricsRegistry := metrics.NewMetricsRegistry()
	runtime := state.NewRuntime(cfg.Limits)
	registry := commands.NewBuiltinRegistry()
	reactor := welcome.NewReactor(client, store, db)

	handler := commands.NewHandler(&commands.Deps{
		Client:        client,
		Counter:       session,
		Store:         store,
		Registry:      registry,
		State:         runtime,
		Metrics:       metricsRegistry,
		DB:            db,
		Reactor:       reactor,
		DefaultPrefix: cfg.Bot.DefaultPrefix,
		OwnerID:       cfg.Bot.OwnerID,
	})

	session.SetupEventHandlers(bot.Handlers{
		Message:       handler.HandleMessage,
		MessageDelete: handler.HandleMessageDelete,
		Interaction:   handler.HandleInteraction,
		MemberAdd:     reactor.HandleMemberAdd,
	})

	watchdogInst := watchdog.NewWatchdog(cfg.Limits.WatchdogInterval())
	registerMaintenance(watchdogInst, maintenanceDeps{
		client:    client,
		store:     store,
		runtime:   runtime,
		metrics:   metricsRegistry,
		db:        db,
		retention: cfg.Database.Retention(),
	})

	var statusServer *status.Server
	if cfg.Status.Enabled {
		statusServer = status.NewServer(session, metricsRegistry, client.HeartbeatLatency, watchdogInst.GetStatus)
	}

	b.Components = &Components{
		Store:    store,
		DB:       db,
		Session:  session,
		Client:   client,
		Registry: registry,
		Handler:  handler,
		Reactor:  reactor,
		Runtime:  runtime,
		Metrics:  metricsRegistry,
		Watchdog: watchdogInst,
		Status:   statusServer,
	}

	logging.Info("Component wiring complete (%d commands)", len(registry.Commands()))
	return nil
}

type maintenanceDeps struct {
	client    bot.Client
	store     *config.Store
	runtime   *state.Runtime
	metrics   *metrics.MetricsRegistry
	db        *database.Database
	retention time.Duration
}

func registerMaintenance(w *watchdog.Watchdog, d maintenanceDeps) {
	w.RegisterTask("metrics_sample", func(context.Context) error {
		if latency := d.client.HeartbeatLatency(); latency > 0 {
			d.metrics.GetLatencySamples().Record(latency)
		}
		d.metrics.GetIngressRate().Sample(time.Now())
		return nil
	})

	w.RegisterTask("store_flush", func(context.Context) error {
		return d.store.FlushPending()
	})

	w.RegisterTask("cache_sweep", func(context.Context) error {
		d.runtime.Sweep()
		return nil
	})

	if d.db != nil && d.retention > 0 {
		w.RegisterTask("action_prune", func(context.Context) error {
			n, err := d.db.PruneActions(time.Now().Add(-d.retention))
			if err != nil {
				return err
			}
			if n > 0 {
				logging.Debug("Pruned %d action log rows", n)
			}
			return nil
		})
	}
}
