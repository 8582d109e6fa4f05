package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"motherguard/internal/config"
	"motherguard/internal/kickcounter"
	"motherguard/internal/notifier"
	"motherguard/internal/policy"
	"motherguard/internal/repository"
	"motherguard/internal/risk"
	"motherguard/internal/scheduler"
	"motherguard/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	httpLog := logrus.New()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	patientRepo := repository.NewPatientRepository(db, logger)
	observationRepo := repository.NewObservationRepository(db, logger)
	assessmentRepo := repository.NewAssessmentRepository(db, logger)
	policyRepo := repository.NewPolicyRepository(db, logger)

	// Threshold policy store (single committed snapshot, admin-tunable)
	policyStore := policy.NewStore(policyRepo, logger)

	// Telegram alert notifier (optional)
	alertNotifier, err := notifier.NewTelegramNotifier(cfg, patientRepo, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		alertNotifier = nil
	}

	// Risk engine
	lookback := time.Duration(cfg.Risk.LookbackDays) * 24 * time.Hour
	var engineNotifier risk.Notifier
	if alertNotifier != nil {
		engineNotifier = alertNotifier
	}
	engine := risk.NewEngine(observationRepo, assessmentRepo, patientRepo, policyStore, engineNotifier, lookback, logger)

	// Kick-counter sessions (one per patient)
	sessions := kickcounter.NewManager(observationRepo, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the periodic risk scan in a goroutine
	scanInterval := time.Duration(cfg.Risk.ScanIntervalHours) * time.Hour
	scanner := scheduler.NewScanner(engine, policyStore, scanInterval, logger)
	go scanner.Run(ctx)

	// Initialize and run the server
	srv := server.NewServer(db, policyStore, engine, sessions, httpLog, logger)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
