package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/flyt/flyt/internal/api"
	"github.com/flyt/flyt/internal/config"
	"github.com/flyt/flyt/internal/database"
	"github.com/flyt/flyt/internal/logging"
	"github.com/flyt/flyt/internal/service"
	"github.com/flyt/flyt/internal/session"
	"github.com/flyt/flyt/internal/tui"
)

func main() {
	ctx := context.Background()

	// a .env next to the binary can override FLYT_* settings during development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	logger, logCloser, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logCloser.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := session.NewStore(db, logger)
	client := api.NewClient(cfg.API, store, logger)

	// observers forward coordinator state into the running program; the
	// program pointer is assigned before Run, ahead of any callback firing
	var program *tea.Program
	send := func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	}
	authObs, searchObs, adminObs := tui.Observers(send)

	coord := tui.Coordinators{
		Auth:   service.NewAuth(client, store, authObs, logger),
		Search: service.NewFlightSearch(client, searchObs, 0, logger),
		Admin:  service.NewFlightAdmin(client, adminObs, 0, logger),
	}

	program = tea.NewProgram(tui.New(ctx, cfg, coord, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
