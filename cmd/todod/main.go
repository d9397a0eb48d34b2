// Command todod serves the todo REST API over a process-scoped store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"todocore/docs/schema"
	"todocore/internal/adapters/httpapi"
	"todocore/internal/config"
	"todocore/internal/core"
	"todocore/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "todod:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("todod", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, "todod", cfg)

	store, err := core.OpenStore(cfg.StoreDriver)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	serviceOpts := []core.ServiceOption{core.WithLogger(logger)}
	handlerOpts := []httpapi.Option{httpapi.WithLogger(logger)}
	switch cfg.Metrics {
	case config.MetricsPrometheus:
		reg := prometheus.NewRegistry()
		rec, err := core.NewPrometheusMetricsRecorder(reg)
		if err != nil {
			return err
		}
		serviceOpts = append(serviceOpts, core.WithMetricsRecorder(rec))
		handlerOpts = append(handlerOpts, httpapi.WithMetricsRegistry(reg))
	case config.MetricsExpvar:
		serviceOpts = append(serviceOpts, core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("todocore")))
		handlerOpts = append(handlerOpts, httpapi.WithExpvar())
	}

	svc := core.NewService(store, serviceOpts...)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: httpapi.New(svc, handlerOpts...)}

	apiVersion, err := schema.APIVersion()
	if err != nil {
		return fmt.Errorf("read api version: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", cfg.ListenAddr,
			"store", cfg.StoreDriver,
			"metrics", cfg.Metrics,
			"api_version", apiVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// Buffer of one so the notifier never blocks.
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-exit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
