// README: Entry point; loads config, wires the toll service and serves HTTP until signalled.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tollfee/internal/config"
	httptransport "tollfee/internal/http"
	"tollfee/internal/infra"
	"tollfee/internal/log"
	"tollfee/internal/metrics"
	"tollfee/internal/modules/toll"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("TOLL_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger, _ := log.New("info")
		bootLogger.Fatal("load config", zap.Error(err))
	}

	logger, err := log.Init(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("toll-api stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	if dbPool != nil {
		defer dbPool.Close()
	}

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.CredentialsFile)
	if err != nil {
		return err
	}
	if verifier == nil {
		logger.Warn("auth.firebase_project_id not set, API runs without authentication")
	}

	configured, err := cfg.Toll.Holidays()
	if err != nil {
		return err
	}
	calendar, err := toll.NewStore(dbPool, redisClient).Calendar(ctx, configured)
	if err != nil {
		return err
	}
	schedule, err := cfg.Toll.Schedule()
	if err != nil {
		return err
	}
	loc, err := cfg.Toll.Location()
	if err != nil {
		return err
	}

	tollSvc := toll.NewService(toll.NewExemptions(calendar), schedule, cfg.Toll.Rules())
	logger.Info("toll service ready",
		zap.Int("holidays", len(calendar.Dates())),
		zap.Int("bands", len(schedule)),
		zap.Duration("window", tollSvc.Rules().Window),
		zap.Int("daily_cap", tollSvc.Rules().DailyCap),
		zap.String("timezone", loc.String()),
	)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Toll:     tollSvc,
		Currency: cfg.Toll.Currency,
		Location: loc,
		Metrics:  metrics.New(nil),
		Verifier: verifier,
	})
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
