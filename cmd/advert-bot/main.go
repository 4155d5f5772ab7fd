package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/ben-gunnels/advert-bot/internal/api/handlers/slack"
	"github.com/ben-gunnels/advert-bot/internal/api/router"
	"github.com/ben-gunnels/advert-bot/internal/api/server"
	"github.com/ben-gunnels/advert-bot/internal/assets"
	"github.com/ben-gunnels/advert-bot/internal/catalog"
	"github.com/ben-gunnels/advert-bot/internal/chat"
	"github.com/ben-gunnels/advert-bot/internal/config"
	"github.com/ben-gunnels/advert-bot/internal/dispatch"
	"github.com/ben-gunnels/advert-bot/internal/events"
	"github.com/ben-gunnels/advert-bot/internal/generator"
	"github.com/ben-gunnels/advert-bot/internal/model"
	"github.com/ben-gunnels/advert-bot/internal/orchestrator"
	"github.com/ben-gunnels/advert-bot/internal/processor"
	"github.com/ben-gunnels/advert-bot/internal/storage/file"
	"github.com/ben-gunnels/advert-bot/internal/workdir"
)

func main() {
	// Context & signals: used for graceful shutdown on system interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad("./config")

	// Retry strategy for storage transport calls.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	// Local staging directories (idempotent, never wipes).
	dirs, err := workdir.Ensure(cfg.Workdir.Root)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to prepare working directories")
	}

	// Initialize file storage (MinIO).
	storage, err := file.NewStorage(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.BucketName, cfg.Storage.UseSSL, strategy)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to storage")
	}

	// Static attribute catalog and channel routing.
	cat := catalog.New(cfg.Catalog.Categories, cfg.Catalog.Subcategories, cfg.Slack.ChannelFolders())

	// Collaborators: chat platform, reference locator, generation backend,
	// post-processor.
	chatClient := chat.NewClient(cfg.Slack.BotToken)
	locator := assets.NewLocator(storage, cat, cfg.Storage.ModelsFolder)
	backend := generator.NewClient(cfg.Generator.APIKey, cfg.Generator.Model, cfg.Generator.BaseURL, cfg.Generator.Timeout)
	proc := processor.New(cfg.Processor.Width, cfg.Processor.Height, cfg.Processor.MarkText, cfg.Processor.FontPath)

	// The orchestrator runs the per-event pipeline; the dispatcher fans
	// accepted events out to a worker pool.
	orch := orchestrator.New(cat, chatClient, locator, storage, backend, proc, dirs)
	d := dispatch.New(orch, cfg.Dispatch.QueueSize)
	d.Start(ctx, cfg.Dispatch.Workers)
	go dispatch.LogResults(d.Results())

	// Event router over the recognized kinds and channel allow-list.
	evRouter := events.NewRouter([]string{model.KindAppMention, model.KindFileShared, model.KindMessage}, cat)

	// HTTP surface: webhook + health.
	h := slack.NewHandler(evRouter, d)
	r := router.Setup(h)
	s := server.New(cfg.Server.HTTPPort, r)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Block until context is canceled (SIGINT/SIGTERM).
	<-ctx.Done()
	zlog.Logger.Info().Msg("context done")

	// Graceful shutdown with timeout for HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Drain in-flight events before exiting.
	d.Stop()
	zlog.Logger.Info().Msg("dispatcher drained")
}
