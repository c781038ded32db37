package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/repcoach/internal/config"
	"github.com/meltforce/repcoach/internal/insight"
	"github.com/meltforce/repcoach/internal/mcp"
	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/server"
	"github.com/meltforce/repcoach/internal/store"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres only)")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepCoach starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, *migrateOnly, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	if st == nil {
		return // migrate-only
	}
	defer st.Close()

	classifier := models.NewClassifier()

	var gen insight.Generator
	if cfg.Coach.APIKey != "" {
		gen = insight.NewClient(cfg.Coach.BaseURL, cfg.Coach.APIKey, cfg.Coach.Model, log)
	} else {
		log.Warn("no coach API key configured, insights use fallback text")
		gen = insight.Disabled{}
	}
	insights := insight.NewService(gen, st)

	mcpSrv := mcp.New(st, classifier, Version, log)
	if *mcpStdio {
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			log.Error("mcp stdio server error", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := server.New(st, classifier, insights, cfg.Auth.APIKey, log)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", srv)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: mux}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore connects the configured backend. With -migrate-only it applies
// postgres migrations and returns (nil, nil).
func openStore(ctx context.Context, cfg *config.Config, migrateOnly bool, log *slog.Logger) (store.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := store.RunMigrations(dsn, "migrations"); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
		if migrateOnly {
			log.Info("migrate-only: exiting")
			return nil, nil
		}
		st, err := store.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", "postgres")
		return st, nil
	default:
		st, err := store.OpenSQLite(cfg.Database.Dir)
		if err != nil {
			return nil, err
		}
		log.Info("database opened", "driver", "sqlite", "dir", cfg.Database.Dir)
		return st, nil
	}
}
