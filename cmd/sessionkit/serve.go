package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionkit/internal/demo"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/sessionstore"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the demo HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			log, err := logger.NewFromConfig(cfg.Log,
				logger.WithContextExtractors(demo.RequestIDExtractor(), jwt.LoggerExtractor()),
			)
			if err != nil {
				return err
			}
			logger.SetAsDefault(log)

			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			deps := demo.Deps{
				Config:   cfg,
				Logger:   log,
				Registry: reg,
			}

			if cfg.Redis.Enabled() {
				client, err := redis.Connect(ctx, cfg.Redis)
				if err != nil {
					return fmt.Errorf("redis: %w", err)
				}
				defer client.Close()

				deps.Store = sessionstore.NewRedisStore(client)
				deps.Checks = append(deps.Checks, redis.Healthcheck(client))
				log.InfoContext(ctx, "using redis profile store")
			} else {
				store := sessionstore.NewMemoryStore(time.Minute)
				defer store.Close()

				deps.Store = store
				log.InfoContext(ctx, "using in-memory profile store")
			}

			app, err := demo.New(deps)
			if err != nil {
				return err
			}

			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(ctx, app.Handler())
		},
	}
}
