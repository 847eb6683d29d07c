// Command dashboard serves the presence dashboard: it loads the user list
// from the presence API, and for every selection fetches the user's photo
// and presence chart, pushing state to the page over a websocket.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/presence-analyzer/dashboard/internal/api"
	"github.com/presence-analyzer/dashboard/internal/api/handler"
	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
	"github.com/presence-analyzer/dashboard/internal/core/service"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/db/redis"
	httpserver "github.com/presence-analyzer/dashboard/internal/infrastructure/http"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/presenceapi"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/queue"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/render"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/session"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/websocket"
	"github.com/presence-analyzer/dashboard/internal/pkg/config"
	"github.com/presence-analyzer/dashboard/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("startup failed")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "presence-dashboard",
	})

	defaultView, err := domain.LookupView(cfg.DefaultView)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid DEFAULT_VIEW")
	}

	client := presenceapi.NewClient(presenceapi.Config{
		BaseURL: cfg.Presence.BaseURL,
		Timeout: cfg.Presence.FetchTimeout,
	}, log)

	var (
		presence ports.PresenceAPI = client
		rdb      *goredis.Client
	)
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer rdb.Close()
		presence = redis.NewCatalogCache(client, rdb, cfg.Redis.CatalogTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("user list cache enabled")
	}

	hub := websocket.NewHub(handler.EncodeSnapshot, log)
	dispatcher := queue.NewDispatcher(cfg.Session.NotifyWorkers, hub, log)
	dispatcher.Start(ctx)

	registry := session.NewRegistry(service.DashboardDeps{
		API:          presence,
		Charts:       render.NewGoogleCharts(),
		Photos:       render.NewPhotoFragments(),
		FetchTimeout: cfg.Presence.FetchTimeout,
		Log:          log,
	}, dispatcher, hub, cfg.Session.IdleTTL, log)
	registryDone := make(chan struct{})
	go func() {
		defer close(registryDone)
		registry.Run(ctx, cfg.Session.SweepInterval)
	}()

	e := api.NewRouter(api.Deps{
		Registry:    registry,
		Hub:         hub,
		Presence:    client,
		Redis:       rdb,
		DefaultView: defaultView,
		Log:         log,
	})

	if err := httpserver.Serve(ctx, e, cfg.Port, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	<-registryDone
	log.Info().Msg("shutdown complete")
}
