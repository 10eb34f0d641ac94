package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"mealprep/internal/api"
	"mealprep/internal/live"
	"mealprep/internal/monitoring"
	"mealprep/internal/planning"
	"mealprep/internal/queue"
	"mealprep/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, live updates and the metrics endpoint",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			logger.Warnw("failed to close store", "error", err)
		}
	}()

	collector := monitoring.NewMetricsCollector()
	monitor := monitoring.NewMonitor()
	hub := live.NewHub(logger)

	options := []service.Option{
		service.WithMetrics(collector),
		service.WithMonitor(monitor),
		service.WithNotifier(hub),
		service.WithWatchedDates(hub.Dates),
	}
	if cfg.Queue.URL != "" {
		broker, err := queue.NewRabbitMQBroker(queue.Config{URL: cfg.Queue.URL})
		if err != nil {
			return err
		}
		defer broker.Close()
		options = append(options, service.WithNotifier(queue.NewPlanPublisher(broker)))
		logger.Infow("publishing plan updates", "queue", queue.QueuePlanUpdates)
	}

	planner := service.NewPlanner(st.orders, st.roster, planningOptions(), logger, options...)
	hub.OnSubscribe(planner.Plan)

	kitchen := api.NewKitchenAPI(planner, api.Options{
		JWTSecret: cfg.Auth.JWTSecret,
		Monitor:   monitor,
		Hub:       hub,
		Logger:    logger,
	})

	servers := []*http.Server{{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: kitchen.Router,
	}}
	if cfg.Metrics.Enabled {
		metricsRouter := gin.New()
		metricsRouter.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))
		servers = append(servers, &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metricsRouter,
		})
	}

	errs := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Infow("starting server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("server %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down servers")
	case err = <-errs:
		logger.Errorw("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	for _, srv := range servers {
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warnw("server shutdown error", "addr", srv.Addr, "error", shutdownErr)
		}
	}
	return err
}

func planningOptions() planning.Options {
	return planning.Options{
		GramsPerCup:      cfg.Planning.GramsPerCup,
		DefaultPackagers: cfg.Planning.DefaultPackagers,
	}
}
