package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/community"
	"github.com/claude/gymbo/internal/config"
	"github.com/claude/gymbo/internal/localstore"
	"github.com/claude/gymbo/internal/mcp"
	"github.com/claude/gymbo/internal/models"
	"github.com/claude/gymbo/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "GymBo server URL; when set, data is fetched over the REST API instead of the local database")
	userID := flag.String("user", "local", "user ID for workout-scoped tools")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymbo-mcp", Version)
		return
	}

	// Logs go to stderr: stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remote != "" {
		ds = community.NewClient(*remote, *userID)
		log.Info("remote mode", "server", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		doc, err := catalog.LoadDocument(cfg.Catalog.Path)
		if err != nil {
			log.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
		cat := catalog.New(doc)

		if local, err := localstore.Open(cfg.Local.Dir); err == nil {
			defer local.Close()
			custom, err := local.ListCustomExercises()
			if err != nil {
				log.Warn("restoring custom exercises failed", "error", err)
			}
			for _, e := range custom {
				cat.AddCustom(e)
			}
		} else {
			log.Warn("local store unavailable", "dir", cfg.Local.Dir, "error", err)
		}

		if rows, err := db.ListCommunityExercises(ctx); err == nil {
			exercises := make([]models.Exercise, 0, len(rows))
			for _, row := range rows {
				exercises = append(exercises, catalog.FromCommunityRow(row))
			}
			cat.SetCommunity(exercises)
		} else {
			log.Warn("loading community exercises failed", "error", err)
		}

		ds = &mcp.LocalSource{DB: db, Cat: cat}
		log.Info("local mode", "database", cfg.Database.Host)
	}

	s := mcp.New(ds, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
