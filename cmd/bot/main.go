package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/affectlab/internal/app"
	"github.com/fadedpez/affectlab/internal/bot"
	"github.com/fadedpez/affectlab/internal/config"
	"github.com/fadedpez/affectlab/internal/discord"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/metrics"
	"github.com/fadedpez/affectlab/pkg/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireDiscord(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), !cfg.IsDevelopment())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Error("[METRICS] Server stopped: %v", err)
			}
		}()
		logger.Info("[METRICS] Serving /metrics on %s", cfg.MetricsAddr)
	}

	services, err := app.New(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("Failed to initialize services: %v", err)
		os.Exit(1)
	}
	defer services.Close()

	// SIGHUP drops the template cache so the next lookup rereads TEMPLATES_PATH
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				services.Templates.Invalidate()
				logger.Info("[APP] Template cache invalidated")
			case <-ctx.Done():
				return
			}
		}
	}()

	maintenance := scheduler.NewMaintenanceScheduler(services.Analytics, services.Templates,
		scheduler.MaintenanceConfig{TemplateRefresh: cfg.TemplateCacheTTL}, logger, m)
	maintenance.Start(ctx)
	defer maintenance.Stop()

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		logger.Error("Failed to create Discord session: %v", err)
		os.Exit(1)
	}

	// Create and initialize bot
	affectBot, err := bot.New(cfg, session, bot.Services{
		Templates:  services.Templates,
		Wallet:     services.Wallet,
		Generation: services.Generation,
		Share:      services.Share,
		Statistics: services.Statistics,
	}, logger, m)
	if err != nil {
		logger.Error("Failed to create bot: %v", err)
		os.Exit(1)
	}

	if err := affectBot.Start(); err != nil {
		logger.Error("Failed to start bot: %v", err)
		os.Exit(1)
	}
	logger.Info("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()

	logger.Info("Shutting down...")
	affectBot.Shutdown()
}
