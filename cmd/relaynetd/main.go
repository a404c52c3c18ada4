package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"relaynet/config"
	"relaynet/core"
	"relaynet/observability/logging"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			panic("Failed to load config: " + err.Error())
		}
		cfg = config.Default()
	}

	env := strings.TrimSpace(os.Getenv("RELAYNET_ENV"))
	if env == "" {
		env = cfg.LogEnvironment
	}
	var logOpts *logging.Options
	if strings.TrimSpace(cfg.LogFile) != "" {
		logOpts = &logging.Options{FilePath: cfg.LogFile, MaxSizeMB: 64, MaxBackups: 4}
	}
	logger := logging.Setup("relaynetd", env, logOpts)

	db, err := cfg.OpenDatabase()
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	engine := core.NewEngine(db)
	if admin, ok, err := cfg.Admin(); err != nil {
		logger.Error("Invalid admin address", slog.Any("error", err))
		os.Exit(1)
	} else if ok {
		engine.SetAdmin(admin)
	} else {
		logger.Warn("No admin address configured; administrative operations are disabled")
	}

	budget, err := cfg.Genesis.DailyBudgetAmount()
	if err != nil {
		logger.Error("Invalid genesis budget", slog.Any("error", err))
		os.Exit(1)
	}
	baseReward, err := cfg.Genesis.BaseRewardAmount()
	if err != nil {
		logger.Error("Invalid genesis base reward", slog.Any("error", err))
		os.Exit(1)
	}
	floors, err := cfg.Genesis.MinimumStakeFloors()
	if err != nil {
		logger.Error("Invalid genesis stake floors", slog.Any("error", err))
		os.Exit(1)
	}
	treasury, err := cfg.Genesis.TreasuryAmount()
	if err != nil {
		logger.Error("Invalid genesis treasury", slog.Any("error", err))
		os.Exit(1)
	}
	if err := engine.InitGenesis(budget, baseReward, floors, treasury); err != nil {
		logger.Error("Failed to apply genesis", slog.Any("error", err))
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         cfg.MetricsAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Metrics listener started", slog.String("addr", cfg.MetricsAddress))
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("Metrics listener failed", slog.Any("error", serveErr))
			stop()
		}
	}()

	logger.Info("Relay incentive engine ready",
		slog.String("backend", cfg.StorageBackend),
		slog.String("data_dir", cfg.DataDir))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown failed", slog.Any("error", err))
	}
	logger.Info("Shutdown complete")
}
