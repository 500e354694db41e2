package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattulau/Algo-Visualizer/internal/config"
	"github.com/mattulau/Algo-Visualizer/internal/logging"
	"github.com/mattulau/Algo-Visualizer/internal/server"
	"github.com/mattulau/Algo-Visualizer/internal/session"
)

func main() {
	// Use a minimal logger until the config is read.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the config, seeds the canvas and serves until ctx ends
func run(ctx context.Context, logW io.Writer) error {
	cfg, path, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New(logW, cfg.Log.Level)
	slog.SetDefault(log)

	log.Info("🚀 Graph Algorithm Visualizer")
	if path != "" {
		log.Info("config loaded", "path", path)
	} else {
		log.Info("ℹ️  no config file found, using defaults")
	}

	sess := session.New(cfg, session.WithLogger(log))

	genCtx, cancel := context.WithTimeout(ctx, server.DefaultGenerateTimeout)
	err = sess.Generate(genCtx, cfg.Graph.NodeCount)
	cancel()
	if err != nil {
		return fmt.Errorf("initial graph: %w", err)
	}

	srv := server.New(sess, log, server.WithStepDelay(cfg.Search.StepDelay.Duration()))
	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("server starting", "addr", cfg.Server.Listen)
	log.Info("endpoints",
		"graph", "GET /graph",
		"generate", "POST /generate",
		"nodes", "POST|DELETE /nodes",
		"edges", "POST|DELETE /edges",
		"clear", "POST /clear",
		"select", "POST /select",
		"search", "POST /search",
		"health", "GET /health")
	log.Info("CORS enabled for all origins")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
