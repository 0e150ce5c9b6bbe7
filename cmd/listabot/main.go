package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tavares/listabot/internal/api"
	"github.com/tavares/listabot/internal/config"
	"github.com/tavares/listabot/internal/export"
	"github.com/tavares/listabot/internal/handlers"
	"github.com/tavares/listabot/internal/metrics"
	"github.com/tavares/listabot/internal/repository/sqlite"
	"github.com/tavares/listabot/internal/selection"
	"github.com/tavares/listabot/internal/service"
	"github.com/tavares/listabot/internal/telegram"
	"github.com/tavares/listabot/pkg/logger"
)

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting ListaBot...")

	// Database
	db, err := config.NewDatabase(cfg.DatabasePath, l)
	if err != nil {
		l.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	listRepo := sqlite.NewListRepository(db.DB)
	itemRepo := sqlite.NewItemRepository(db.DB)

	// Export pipeline; when EXPORT_DIR is unset files land in the working
	// directory.
	var picker export.FolderPicker
	if cfg.ExportDir != "" {
		picker = export.FixedDir(cfg.ExportDir)
	}
	exporter := export.NewPipeline(listRepo, itemRepo, picker, l)

	// Service layer
	m := metrics.New()
	svc := service.New(l, m, listRepo, itemRepo, selection.NewTracker(), exporter)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// HTTP API
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Prometheus metrics
	metricsServer := &http.Server{
		Addr:    ":" + cfg.PrometheusPort,
		Handler: m.Handler(),
	}

	go func() {
		l.Infof("Metrics listening on :%s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("Metrics server error: %v", err)
		}
	}()

	// Telegram bot (optional)
	if cfg.BotEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}

		bot.RegisterCommand("start", handlers.NewStartHandler(l))
		bot.RegisterCommand("help", handlers.NewHelpHandler(l))

		// Lists
		bot.RegisterCommand("newlist", handlers.NewListCreateHandler(svc, l))
		bot.RegisterCommand("lists", handlers.NewListsHandler(svc, l))
		bot.RegisterCommand("open", handlers.NewOpenHandler(svc, l))
		bot.RegisterCommand("home", handlers.NewHomeHandler(svc, l))

		// Items
		bot.RegisterCommand("additem", handlers.NewAddItemHandler(svc, l))
		bot.RegisterCommand("bought", handlers.NewBoughtHandler(svc, l))
		bot.RegisterCommand("total", handlers.NewTotalHandler(svc, l))

		// Deletion
		bot.RegisterCommand("dellist", handlers.NewDeleteListHandler(svc, l))
		bot.RegisterCommand("delitem", handlers.NewDeleteItemHandler(svc, l))
		bot.RegisterCommand("confirm", handlers.NewConfirmHandler(svc, l))
		bot.RegisterCommand("cancel", handlers.NewCancelHandler(svc, l))

		// Export
		bot.RegisterCommand("select", handlers.NewSelectHandler(svc, l))
		bot.RegisterCommand("export", handlers.NewExportHandler(svc, l))

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	l.Info("ListaBot started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP servers...")
	httpServer.Close()
	metricsServer.Close()

	l.Info("ListaBot stopped")
}
