package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/capability"
	"github.com/aldric/opsdeck/internal/command"
	"github.com/aldric/opsdeck/internal/config"
	"github.com/aldric/opsdeck/internal/database"
	"github.com/aldric/opsdeck/internal/dispatch"
	"github.com/aldric/opsdeck/internal/logging"
	"github.com/aldric/opsdeck/internal/recent"
	"github.com/aldric/opsdeck/internal/scriptform"
	"github.com/aldric/opsdeck/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	logging.Init(cfg.Log.Path)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	client := api.NewClient(cfg.Backend.BaseURL, cfg.ResolveToken())

	// Identity resolves up front: the whole catalog is capability-filtered, so
	// there is nothing useful to render before the grant set is known.
	session, err := client.Session(ctx)
	if err != nil {
		log.Fatalf("session: cannot reach backend at %s: %v", cfg.Backend.BaseURL, err)
	}
	grants := capability.NewSet(session.Permissions)
	logging.Infof("session: operator %q with %d permission(s)", session.User, len(session.Permissions))

	store, err := recent.NewStore(ctx, db, cfg.UI.RecentCap)
	if err != nil {
		log.Fatalf("recent store: %v", err)
	}

	registry := command.NewRegistry(command.StaticEntries(), grants)
	registry.SetRecents(store.List())

	deps := tui.Deps{
		Client:       client,
		Registry:     registry,
		Controller:   dispatch.NewController(store),
		Recents:      store,
		Options:      scriptform.NewOptionCache(client),
		RefreshEvery: cfg.RefreshInterval(),
	}
	if err := tui.Run(ctx, deps); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
