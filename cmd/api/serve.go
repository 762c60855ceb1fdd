package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/imagify-backend/internal/api"
	"github.com/baharkarakas/imagify-backend/internal/auth"
	"github.com/baharkarakas/imagify-backend/internal/config"
	"github.com/baharkarakas/imagify-backend/internal/db"
	"github.com/baharkarakas/imagify-backend/internal/imagegen"
	"github.com/baharkarakas/imagify-backend/internal/logger"
	"github.com/baharkarakas/imagify-backend/internal/metrics"
	"github.com/baharkarakas/imagify-backend/internal/razorpay"
	"github.com/baharkarakas/imagify-backend/internal/services"
	"github.com/baharkarakas/imagify-backend/internal/worker"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.Env)
		store, err := db.Open(cmd.Context(), cfg.DatabaseURL, true)
		if err != nil {
			log.Error("migrations", "err", err)
			return err
		}
		store.Close()
		log.Info("migrations applied")
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DatabaseURL, cfg.Migrate)
	if err != nil {
		log.Error("db connect", "err", err)
		return err
	}
	defer store.Close()

	metrics.Init()
	wp := worker.NewPool(cfg.AuditWorkers, 1024)

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	audit := services.NewAuditor(store.Repos().AuditLogs, wp, log)
	ledger := services.NewLedgerService(store, audit, log)
	txns := services.NewTransactionService(store, log)
	gw := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayURL, cfg.UpstreamTimeout)
	payments := services.NewPaymentService(store, ledger, txns, gw,
		services.PaymentConfig{KeySecret: cfg.RazorpayKeySecret, Currency: cfg.Currency}, audit, log)
	images := services.NewImageService(ledger, imagegen.NewClipDrop(cfg.ClipdropAPIKey, cfg.ClipdropURL, cfg.UpstreamTimeout), log)
	users := services.NewUserService(store.Repos().Users, tm, cfg.StartingCredits, log)

	r := api.NewRouter(api.RouterDeps{
		Cfg:      cfg,
		Log:      log,
		Store:    store,
		TM:       tm,
		Users:    users,
		Images:   images,
		Payments: payments,
		Txns:     txns,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("server", "err", err)
			wp.Stop()
			return err
		}
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "err", err)
	}
	// audit writes queued by in-flight requests still land before the store closes
	wp.Stop()
	return nil
}
