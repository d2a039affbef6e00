package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clipcutter/api"
	"clipcutter/application/batch"
	"clipcutter/application/extract"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/config"
	"clipcutter/infrastructure/ffmpeg"
	"clipcutter/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cut and extraction operations over HTTP",
	Long: `Start the HTTP server exposing the cut and extraction endpoints.

Endpoints:
  POST /cut                  batch cut driven by a cutlist file
  POST /cut/segments         batch cut with segments in the request body
  POST /extract-audio        extract the audio track as mp3 or wav
  POST /extract-muted-video  strip the audio track
  GET  /shared               list the shared folder
  GET  /health               liveness probe

Example:
  clipcutter serve --config config/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'clipcutter setup' or pass --config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner := ffmpeg.NewRunner(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path))
	fileChecker := filesystem.NewChecker()
	root := filesystem.NewRoot(cfg.Paths.SharedDir)

	return RunServeWithDependencies(cmd.Context(), cfg, root, runner, fileChecker)
}

// RunServeWithDependencies runs the HTTP server with injected dependencies.
// It blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func RunServeWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	root filesystem.Root,
	executor video.Executor,
	fileChecker video.FileChecker,
) error {
	if err := verifyExecutor(ctx, executor); err != nil {
		return err
	}

	orchestrator := batch.NewOrchestrator(root, executor, fileChecker, batch.WithConcurrency(cfg.Batch.Concurrency))
	extractor := extract.NewService(root, executor, fileChecker)
	server := api.NewServer(root, orchestrator, extractor)

	httpServer := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server: listening on %s, shared folder %s", cfg.Server.Listen, root.Dir())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-signalCtx.Done():
	}

	log.Printf("Server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
