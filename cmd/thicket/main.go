package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/thicket/core/config"
	"github.com/dmitrymomot/thicket/core/logger"
	"github.com/dmitrymomot/thicket/core/server"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)

	shutdownTracing, err := setupTracing(cfg)
	if err != nil {
		log.Error("failed to set up tracing", logger.Component("tracing"), logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("failed to flush traces", logger.Component("tracing"), logger.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	rt, err := newRouter(cfg, log, reg)
	if err != nil {
		log.Error("invalid router configuration", logger.Component("router"), logger.Error(err))
		os.Exit(1)
	}
	for _, r := range rt.Routes() {
		log.Debug("route", logger.Method(r.Method), logger.Pattern(r.Pattern))
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		log.Error("failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(ctx, web.Handler(rt, web.WithLogger[*web.Context](log))))

	if err := eg.Wait(); err != nil {
		log.Error("server stopped with error", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func newLogger(cfg Config) *slog.Logger {
	extract := logger.WithContextExtractors(func(c context.Context) (slog.Attr, bool) {
		id, ok := middleware.GetRequestID(c)
		return logger.RequestID(id), ok
	})

	file := logger.WithRotatingFile(cfg.LogFile)

	switch cfg.Environment {
	case "production":
		return logger.New(logger.WithProduction(cfg.AppName), extract, file)
	case "staging":
		return logger.New(logger.WithStaging(cfg.AppName), extract, file)
	default:
		return logger.New(logger.WithDevelopment(cfg.AppName), extract, file)
	}
}
