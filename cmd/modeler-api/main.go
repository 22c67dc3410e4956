// Modeler API — HTTP сервер редактора flow-диаграмм.
//
// Сервер:
//   - Держит каталог flows (PostgreSQL, YAML файл или встроенный пример)
//   - Открывает сессии редактирования, каждая со своим modeler.Store
//   - Перезагружает каталог по cron, по изменению файла и по событию catalog.changed
//   - Публикует element.updated и catalog.changed в RabbitMQ (если настроен)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/flowmodeler/internal/api"
	"github.com/shaiso/flowmodeler/internal/catalog"
	"github.com/shaiso/flowmodeler/internal/config"
	"github.com/shaiso/flowmodeler/internal/mq"
	"github.com/shaiso/flowmodeler/internal/repo"
	"github.com/shaiso/flowmodeler/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting modeler-api")

	if err := run(logger); err != nil {
		logger.Error("modeler-api failed", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func run(logger *slog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	instance := uuid.New().String()
	g, ctx := errgroup.WithContext(ctx)

	// Каталог
	live := catalog.NewLive(nil)
	var (
		source    catalog.Source
		flowStore api.FlowWriter
	)

	switch cfg.CatalogSource() {
	case "postgres":
		pool, err := repo.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		logger.Info("connected to database")

		if err := repo.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		flowRepo := repo.NewFlowRepo(pool)
		flowStore = flowRepo
		source = catalog.RepoSource{Repo: flowRepo}

	case "file":
		source = catalog.FileSource{Path: cfg.CatalogFile}

	default:
		source = catalog.StaticSource{Catalog: catalog.Example()}
	}

	reloader := catalog.NewReloader(live, source, logger)
	if err := reloader.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	switch source.(type) {
	case catalog.RepoSource:
		if err := catalog.ValidateCronExpr(cfg.CatalogRefreshCron); err != nil {
			return err
		}
		g.Go(func() error { return reloader.RunCron(ctx, cfg.CatalogRefreshCron) })
	case catalog.FileSource:
		g.Go(func() error { return reloader.WatchFile(ctx, cfg.CatalogFile) })
	}

	// RabbitMQ
	var (
		publisher api.EventPublisher
		conn      *mq.Connection
	)
	if cfg.AMQPURL != "" {
		conn, err = mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, events disabled", "error", err)
		} else {
			defer conn.Close()

			if err := mq.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}

			publisher = mq.NewPublisher(conn, logger, instance)

			consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
				Queue: "modeler.catalog." + instance,
				Binding: &mq.Binding{
					Exchange:   mq.ExchangeEvents,
					RoutingKey: mq.RoutingKeyCatalogChanged,
					AutoDelete: true,
				},
				Handler: catalogChangedHandler(reloader),
			})
			g.Go(func() error { return consumer.Run(ctx) })
		}
	}

	// Сессии и API handler
	sessions := api.NewSessions(api.SessionsConfig{
		Catalog:  live,
		Observer: telemetry.MetricsObserver{},
		Limit:    cfg.SessionLimit,
		Logger:   logger,
	})

	handler := api.NewHandler(api.Config{
		Catalog:   live,
		Sessions:  sessions,
		Flows:     flowStore,
		Publisher: publisher,
		Reloader:  reloader,
		Logger:    logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
		if conn != nil && !conn.IsConnected() {
			fmt.Fprint(w, " (events: reconnecting)")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}

	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr, "catalog", source.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		// Graceful shutdown с таймаутом 10 секунд
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// catalogChangedHandler перезагружает каталог по событию catalog.changed.
func catalogChangedHandler(reloader *catalog.Reloader) mq.Handler {
	return func(ctx context.Context, d *mq.Delivery) error {
		payload, err := mq.ParsePayload[mq.CatalogChangedPayload](&d.Message)
		if err != nil {
			return err
		}

		telemetry.FromContext(ctx).Info("catalog changed", "flow_id", payload.FlowID, "source", d.Message.Source)
		return reloader.Reload(ctx)
	}
}
