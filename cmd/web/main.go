package main

import (
	"embed"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blockfall/internal/game"
	"blockfall/internal/handlers"
)

const (
	pruneEvery = time.Minute
	pruneAfter = 30 * time.Minute
)

func main() {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	cfg := game.Config{
		FrameInterval: envDuration("FRAME_INTERVAL", game.DefaultFrameInterval),
		Seed:          envInt64("SEED", 0),
	}
	store := game.NewStore(cfg)
	go prune(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal(err)
	}

	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	homeHandler := handlers.NewHomeHandler(store)
	gameHandler := handlers.NewGameHandler(store)

	// The SSE stream must outlive any request timeout, so only the short
	// routes get one.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		homeHandler.RegisterRoutes(r)
	})
	gameHandler.RegisterRoutes(r)

	addr := ":" + strings.TrimSpace(os.Getenv("PORT"))
	if addr == ":" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("listening on http://localhost%s frame=%s seed=%d", addr, cfg.FrameInterval, cfg.Seed)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func prune(store *game.Store) {
	ticker := time.NewTicker(pruneEvery)
	defer ticker.Stop()
	for now := range ticker.C {
		store.Prune(now.UTC(), pruneAfter)
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("ignoring %s=%q: want a positive duration", key, raw)
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, raw, err)
		return fallback
	}
	return n
}

//go:embed static/*
var embeddedStatic embed.FS
