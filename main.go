package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/config"
	"medadmin/m/internal/database"
	"medadmin/m/internal/localdata"
	"medadmin/m/internal/logger"
	"medadmin/m/internal/migrations"
	"medadmin/m/internal/seed"
	"medadmin/m/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(cfg.Env)

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	var stock *localdata.Dataset
	if cfg.SeedStockCSV != "" {
		if stock, err = seed.LoadStock(cfg.SeedStockCSV, logg); err != nil {
			logg.Error("stock seed skipped", "path", cfg.SeedStockCSV, "err", err)
		}
	}

	api := apiclient.New(cfg.APIBaseURL, &http.Client{}, logg)
	handler := web.New(db, api, web.Options{
		Secret:       cfg.Secret,
		SchoolCode:   cfg.SchoolCode,
		TenantSuffix: cfg.TenantSuffix,
		Metrics:      cfg.Metrics,
		Seed:         stock,
	}, logg)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Info("admin console starting", "port", cfg.HTTPPort, "api", cfg.APIBaseURL, "school", cfg.SchoolCode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown", "err", err)
	}
}
