package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tile-planner/internal/common/config"
	"tile-planner/internal/common/middleware"
	"tile-planner/internal/planner/editor"
	"tile-planner/internal/planner/handlers"
	"tile-planner/internal/planner/layout"
	"tile-planner/internal/planner/render"
	"tile-planner/internal/planner/repository"
	"tile-planner/internal/planner/service"
	"tile-planner/internal/planner/watcher"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(ctx); err != nil {
		log.Fatalf("init db: %v", err)
	}

	tmpl := layout.DefaultTemplate()
	if cfg.TemplatePath != "" {
		loaded, err := layout.LoadTemplate(cfg.TemplatePath)
		if err != nil {
			log.Fatalf("load room template: %v", err)
		}
		tmpl = loaded
	}

	sessions := service.NewSessionManager(repo, editor.Options{
		Width:      cfg.GridWidth,
		Height:     cfg.GridHeight,
		PaletteMax: cfg.PaletteMax,
	}, tmpl)

	if cfg.TemplatePath != "" {
		w, err := watcher.New(cfg.TemplatePath)
		if err != nil {
			log.Fatalf("watch room template: %v", err)
		}
		defer w.Close()
		go watcher.Follow(ctx, w, sessions.SetTemplate)
		log.Printf("Watching room template %s", w.Path())
	}

	health := handlers.NewHealthHandler(db)
	planner := handlers.NewPlannerHandler(sessions, render.New())

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Tile Planner",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)

	// ============================================================
	// Planner Routes
	// ============================================================

	planner.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Tile Planner on %s (env: %s, room: %q)", addr, cfg.Environment, tmpl.Name)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
