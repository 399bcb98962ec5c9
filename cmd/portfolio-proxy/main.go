// Command portfolio-proxy serves cached portfolio content (videos,
// repositories, blog posts) fetched from third-party APIs, shielding
// free-tier quotas behind a dual-tier cache and per-integration rate
// limits.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/nrivas/portfolio-core/internal/config"
	"github.com/nrivas/portfolio-core/pkg/cache"
	"github.com/nrivas/portfolio-core/pkg/clients/feeds"
	"github.com/nrivas/portfolio-core/pkg/clients/github"
	"github.com/nrivas/portfolio-core/pkg/clients/youtube"
	"github.com/nrivas/portfolio-core/pkg/health"
	"github.com/nrivas/portfolio-core/pkg/logging"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "portfolio-proxy",
		Short:        "Caching proxy for portfolio site integrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file (optional)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Primary cache tier configured")
	}

	cacheManager := cache.NewManager(cache.Config{
		Redis:          redisClient,
		Namespace:      cfg.Cache.Namespace,
		DefaultTTL:     cfg.Cache.DefaultTTL,
		MaxMemoryItems: cfg.Cache.MaxMemoryItems,
		SweepInterval:  cfg.Cache.SweepInterval,
		Compression:    cfg.Cache.Compression,
	})
	defer cacheManager.Close()

	youtubeClient := youtube.New(youtube.Config{
		APIKey:     cfg.YouTube.APIKey,
		ChannelID:  cfg.YouTube.ChannelID,
		MaxResults: cfg.YouTube.MaxResults,
		Limits:     cfg.YouTube.Limits.Limits(),
	}, nil)

	githubClient := github.New(github.Config{
		Token:    cfg.GitHub.Token,
		Username: cfg.GitHub.Username,
		MaxRepos: cfg.GitHub.MaxRepos,
		Limits:   cfg.GitHub.Limits.Limits(),
	}, nil)

	feedsClient := feeds.New(feeds.Config{
		APIKey:   cfg.Feeds.APIKey,
		FeedURL:  cfg.Feeds.FeedURL,
		MaxPosts: cfg.Feeds.MaxPosts,
		Limits:   cfg.Feeds.Limits.Limits(),
	}, nil)

	aggregator := health.NewAggregator()
	aggregator.Register("cache", cacheManager)
	aggregator.Register("youtube", youtubeClient)
	aggregator.Register("github", githubClient)
	aggregator.Register("feeds", feedsClient)

	server := newServer(cfg, serverDeps{
		cache:      cacheManager,
		youtube:    youtubeClient,
		github:     githubClient,
		feeds:      feedsClient,
		aggregator: aggregator,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCtx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
