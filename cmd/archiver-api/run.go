package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/katube/audio-archiver/internal/api_server"
	"github.com/katube/audio-archiver/internal/config"
	"github.com/katube/audio-archiver/internal/objstore"
	"github.com/katube/audio-archiver/internal/pipeline"
	"github.com/katube/audio-archiver/internal/service"
	"github.com/katube/audio-archiver/internal/source"
	"github.com/katube/audio-archiver/internal/store"
	"github.com/katube/audio-archiver/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the archiver api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		if err := os.MkdirAll(cfg.Service.OutputDir, 0755); err != nil {
			zap.S().Fatalf("creating output directory: %s", err)
		}

		dataStore := store.NewStore()
		defer dataStore.Close()

		objectStore, err := objstore.New(
			objstore.WithEndpoint(cfg.ObjectStore.Endpoint),
			objstore.WithBucket(cfg.ObjectStore.Bucket),
			objstore.WithAccessKey(cfg.ObjectStore.AccessKey),
			objstore.WithSecretKey(cfg.ObjectStore.SecretKey),
			objstore.WithSSL(cfg.ObjectStore.UseSSL),
		)
		if err != nil {
			zap.S().Fatalf("initializing object store client: %s", err)
		}

		sourceClient := source.NewClient()
		sessions := pipeline.NewSessionManager(cfg.Service.OutputDir)
		pipe := pipeline.New(sourceClient, sourceClient, objectStore)

		pool := service.NewWorkerPool(cfg.Service.JobWorkers)
		defer pool.Stop()

		jobSrv := service.NewJobService(dataStore, sessions, pipe, pool, cfg.Service.MaxVideos)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, jobSrv, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalf("Error running server: %s", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalf("creating metrics listener: %s", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalf("Error running metrics server: %s", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
