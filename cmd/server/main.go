package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/config"
	"github.com/mamadbah2/dinopark/internal/domain/park"
	"github.com/mamadbah2/dinopark/internal/repository/mongodb"
	"github.com/mamadbah2/dinopark/internal/repository/sheets"
	"github.com/mamadbah2/dinopark/internal/scheduler"
	"github.com/mamadbah2/dinopark/internal/server/handlers"
	"github.com/mamadbah2/dinopark/internal/server/router"
	commandsvc "github.com/mamadbah2/dinopark/internal/service/commands"
	"github.com/mamadbah2/dinopark/internal/service/keeper"
	reportingsvc "github.com/mamadbah2/dinopark/internal/service/reporting"
	rostersvc "github.com/mamadbah2/dinopark/internal/service/roster"
	whatsappsvc "github.com/mamadbah2/dinopark/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/dinopark/pkg/clients/whatsapp"
	"github.com/mamadbah2/dinopark/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	parkKeeper := keeper.New(park.New(cfg.Park.Name, cfg.Park.TicketPrice), logger.Named(baseLogger, "keeper"))

	var reportRepo mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reportRepo = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, park reports will not be stored")
	}

	// nil interfaces below mean the feature is switched off
	var rosterWriter handlers.RosterWriter
	var commandRoster commandsvc.RosterWriter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		roster := rostersvc.NewService(sheetsRepo, parkKeeper, logger.Named(baseLogger, "svc.roster"))
		rosterWriter, commandRoster = roster, roster

		loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := roster.Load(loadCtx); err != nil {
			baseLogger.Error("failed to load roster", zap.Error(err))
		}
		cancel()
	} else {
		baseLogger.Warn("google sheets not configured, park starts empty")
	}

	reportingSvc := reportingsvc.NewService(parkKeeper, reportRepo, logger.Named(baseLogger, "svc.reporting"))

	var messagingSvc whatsappsvc.MessagingService
	var webhookHandler *handlers.WebhookHandler
	if cfg.WhatsApp.Enabled() {
		dispatcher := commandsvc.NewService(parkKeeper, reportingSvc, commandRoster, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, dispatcher, logger.Named(baseLogger, "svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		baseLogger.Info("whatsapp messaging enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, messaging disabled")
	}

	parkHandler := handlers.NewParkHandler(parkKeeper, reportingSvc, rosterWriter, logger.Named(baseLogger, "handlers.park"))
	engine := router.New(parkHandler, webhookHandler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("park", cfg.Park.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
