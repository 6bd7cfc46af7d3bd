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

	"tailscale.com/tsnet"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/config"
	"github.com/claude/gymbo/internal/localstore"
	"github.com/claude/gymbo/internal/models"
	"github.com/claude/gymbo/internal/server"
	"github.com/claude/gymbo/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymBo starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Load built-in catalog
	doc, err := catalog.LoadDocument(cfg.Catalog.Path)
	if err != nil {
		log.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	cat := catalog.New(doc)
	log.Info("catalog loaded", "exercises", len(doc.Exercises))

	// Open the local store and restore custom exercises
	local, err := localstore.Open(cfg.Local.Dir)
	if err != nil {
		log.Error("failed to open local store", "dir", cfg.Local.Dir, "error", err)
		os.Exit(1)
	}
	defer local.Close()

	custom, err := local.ListCustomExercises()
	if err != nil {
		log.Warn("restoring custom exercises failed", "error", err)
	}
	for _, e := range custom {
		cat.AddCustom(e)
	}
	if len(custom) > 0 {
		log.Info("custom exercises restored", "count", len(custom))
	}

	// Seed community exercises into the catalog
	rows, err := db.ListCommunityExercises(ctx)
	if err != nil {
		log.Warn("loading community exercises failed", "error", err)
	} else {
		community := make([]models.Exercise, 0, len(rows))
		for _, row := range rows {
			community = append(community, catalog.FromCommunityRow(row))
		}
		cat.SetCommunity(community)
		log.Info("community exercises loaded", "count", len(community))
	}

	// Create server
	srv := server.New(db, cat, local, cfg.Auth.ModerationAPIKey, Version, log)

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

	httpSrv := &http.Server{Handler: srv}

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
