// Package serve implements the serve command, which exposes the crawl
// controller over HTTP with a server-sent event stream.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/north-cloud/job-crawler/cmd/common"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/api"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/fetcher"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/sse"
	"github.com/spf13/cobra"
)

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
)

// Command returns the serve command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve starts an HTTP API that starts, observes and cancels crawl runs.
Run events are streamed at /api/v1/runs/events.`,
		RunE: runServe,
	}
	cmd.Flags().String("address", "", "listen address (overrides server.address)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	log := deps.Logger
	defer func() { _ = log.Sync() }()

	if address, _ := cmd.Flags().GetString("address"); address != "" {
		deps.Config.Server.Address = address
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	broker := sse.NewBroker(log)
	if startErr := broker.Start(ctx); startErr != nil {
		return fmt.Errorf("start event broker: %w", startErr)
	}

	controller := crawler.NewController(deps.Config.Crawler, fetcher.New(deps.Config.Crawler, log), log)
	service := api.NewRunService(ctx, controller, broker, indexerFactory(deps), log)
	server := api.NewServer(deps.Config.Server, api.SetupRouter(log, service, broker))

	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		log.Info("Starting HTTP server", logger.String("address", server.Addr))
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case serveErr := <-errChan:
		log.Error("Server error", logger.Error(serveErr))
		_ = broker.Stop()
		return fmt.Errorf("server error: %w", serveErr)
	case sig := <-sigChan:
		return shutdown(deps, server, controller, broker, sig)
	}
}

// indexerFactory returns nil when Elasticsearch is disabled. A run whose
// index cannot be prepared is crawled without indexing.
func indexerFactory(deps common.CommandDeps) api.IndexerFactory {
	if !deps.Config.Elasticsearch.Enabled {
		return nil
	}
	return func(ctx context.Context, runID string, p profile.Profile) api.RecordIndexer {
		indexer, err := common.NewIndexer(ctx, deps.Config.Elasticsearch, runID, p, deps.Logger)
		if err != nil {
			deps.Logger.Error("Indexing disabled for run",
				logger.String("run_id", runID),
				logger.Error(err),
			)
			return nil
		}
		return indexer
	}
}

func shutdown(
	deps common.CommandDeps,
	server *http.Server,
	controller *crawler.Controller,
	broker sse.Broker,
	sig os.Signal,
) error {
	log := deps.Logger
	log.Info("Shutdown signal received", logger.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()

	if run := controller.Current(); run != nil {
		if cancelErr := controller.Cancel(); cancelErr == nil {
			log.Info("Waiting for active run to stop", logger.String("run_id", run.ID()))
			select {
			case <-run.Done():
			case <-shutdownCtx.Done():
				log.Warn("Active run did not stop before timeout", logger.String("run_id", run.ID()))
			}
		}
	}

	log.Info("Stopping HTTP server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", logger.Error(err))
		_ = broker.Stop()
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := broker.Stop(); err != nil {
		log.Error("Failed to stop event broker", logger.Error(err))
	}

	log.Info("Server stopped successfully")
	return nil
}
