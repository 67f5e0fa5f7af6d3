package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentgear-storefront/internal/auth"
	"rentgear-storefront/internal/cache"
	"rentgear-storefront/internal/config"
	"rentgear-storefront/internal/logger"
	"rentgear-storefront/internal/notify"
	"rentgear-storefront/internal/remote"
	"rentgear-storefront/internal/scheduler"
	"rentgear-storefront/internal/syncer"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentGear storefront core...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Remote store configuration", "base_url", cfg.Remote.BaseURL, "timeout_seconds", cfg.Remote.TimeoutSeconds)

	// Remote collection store client
	store := remote.NewClient(cfg.Remote.BaseURL, time.Duration(cfg.Remote.TimeoutSeconds)*time.Second)

	// Auth collaborator
	authBase := cfg.Auth.BaseURL
	if authBase == "" {
		authBase = cfg.Remote.BaseURL
	}
	provider := auth.NewRestProvider(authBase, cfg.Auth.APIKey, time.Duration(cfg.Auth.TimeoutSeconds)*time.Second)

	// Optional offline cache
	var cacheStore syncer.CacheStore
	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			logger.Error("Failed to open offline cache", "error", err, "path", cfg.Cache.Path)
			log.Fatalf("Failed to open offline cache: %v", err)
		}
		defer c.Close()
		cacheStore = c
		logger.Info("Offline cache enabled", "path", cfg.Cache.Path)
	}

	// Optional order confirmation emails
	var notifier syncer.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewEmailNotifier(cfg.Notify.SendGridAPIKey, cfg.Notify.FromEmail, cfg.Notify.FromName)
		logger.Info("Order confirmation emails enabled", "from", cfg.Notify.FromEmail)
	}

	// Synchronization coordinator
	coordinator := syncer.NewCoordinator(store, provider.CurrentUser, notifier, cacheStore)

	// Warm the catalog projection; cart and orders need a signed-in user and
	// are refreshed by the scheduler once one appears.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := coordinator.FetchEquipment(ctx); err != nil {
		logger.Warn("Initial equipment fetch failed", "error", err)
	}
	cancel()

	// Background re-sync
	sched := scheduler.NewScheduler(coordinator, cfg.Scheduler)
	sched.Start()
	defer sched.Stop()

	// React to auth state changes: fetch the user's cart and orders on
	// sign-in, drop all projections on sign-out.
	users := provider.Subscribe()
	go func() {
		for user := range users {
			if user == nil {
				logger.Info("User signed out, clearing projections")
				coordinator.Reset()
				continue
			}
			logger.Info("User signed in, syncing projections", "user_id", user.ID)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := coordinator.FetchCart(ctx); err != nil {
				logger.Warn("Cart sync after sign-in failed", "error", err)
			}
			if err := coordinator.FetchOrders(ctx); err != nil {
				logger.Warn("Order sync after sign-in failed", "error", err)
			}
			cancel()
		}
	}()

	logger.Info("Storefront core running; press Ctrl+C to stop")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down")
}
