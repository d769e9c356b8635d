package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dmmap/internal/config"
	"dmmap/internal/logging"
	"dmmap/internal/server"
	"dmmap/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	st, err := store.Open(context.Background(), cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	app := server.New(&server.Dependencies{
		Store:         st,
		ProgressEvery: cfg.Ingest.ProgressEvery,
	}, cfg.Server.BodyLimitMB)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("server starting", "addr", addr, "store", cfg.Store.Driver)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
