package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nrivas/portfolio-core/internal/config"
	"github.com/nrivas/portfolio-core/pkg/cache"
	"github.com/nrivas/portfolio-core/pkg/client"
	"github.com/nrivas/portfolio-core/pkg/clients/feeds"
	"github.com/nrivas/portfolio-core/pkg/clients/github"
	"github.com/nrivas/portfolio-core/pkg/clients/youtube"
	"github.com/nrivas/portfolio-core/pkg/health"
)

type serverDeps struct {
	cache      *cache.Manager
	youtube    *youtube.Client
	github     *github.Client
	feeds      *feeds.Client
	aggregator *health.Aggregator
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newMux(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func newMux(deps serverDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/videos", contentHandler(deps.cache, "videos",
		func(ctx context.Context) client.Result[[]youtube.Video] {
			return deps.youtube.GetVideos(ctx, youtube.Options{})
		}))

	mux.HandleFunc("/api/repos", contentHandler(deps.cache, "repos",
		func(ctx context.Context) client.Result[[]github.Repository] {
			return deps.github.GetRepositories(ctx, github.Options{})
		}))

	mux.HandleFunc("/api/posts", contentHandler(deps.cache, "posts",
		func(ctx context.Context) client.Result[[]feeds.Post] {
			return deps.feeds.GetPosts(ctx, feeds.Options{})
		}))

	mux.HandleFunc("/health", healthHandler(deps.aggregator))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
