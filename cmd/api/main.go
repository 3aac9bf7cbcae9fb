// Package main starts an HTTP server that converts dependency analyzer output
// into standardized graphs. It serves health checks, conversion, detection,
// saved graphs and a websocket stream.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/depscope/core/cmd/api/middleware"
	"github.com/depscope/core/internal/cache"
	"github.com/depscope/core/internal/config"
	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/handlers"
	"github.com/depscope/core/internal/service"
	"github.com/depscope/core/internal/store"
	"github.com/depscope/core/internal/stream"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Env)
	slog.SetDefault(logger)

	handler, err := newServer(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("🚀 Server starting", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
	log.Fatal(srv.ListenAndServe())
}

func newLogger(env string) *slog.Logger {
	if env == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func newServer(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	graphCache, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("init graph cache: %w", err)
	}

	graphStore, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("init graph store: %w", err)
	}

	conv := converter.New(converter.WithLogger(logger))
	graphs := service.New(conv, graphCache, graphStore, logger)
	graphHandler := handlers.NewGraphHandler(graphs, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HealthHandler(map[string]string{
		"graph_store": cfg.Store.Backend,
		"cache_size":  strconv.Itoa(cfg.CacheSize),
	}))
	mux.HandleFunc("/convert", graphHandler.Convert)
	mux.HandleFunc("/detect", graphHandler.Detect)
	mux.HandleFunc("/graphs/{project}", graphHandler.LoadGraph)
	mux.Handle("/ws", stream.NewHandler(graphs, cfg.CorsAllowedOrigin, logger))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Cors(cfg.CorsAllowedOrigin),
	), nil
}
