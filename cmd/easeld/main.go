package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"easel/internal/api"
	"easel/internal/config"
	"easel/internal/daemon"
	"easel/internal/lease"
	"easel/internal/library"
	"easel/internal/logging"
	"easel/internal/queue"
	"easel/internal/taxonomy"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return
	}
	defer store.Close()

	leases := lease.NewManager(store, cfg.LeaseDuration())
	scanner := library.NewScanner(cfg.Paths.ImageDir, store, logger)
	vocab := taxonomy.FromConfig(cfg.Taxonomy)
	service := api.NewQueueService(store, leases, scanner, vocab, logger)

	d, err := daemon.New(cfg, store, service, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}
	defer d.Stop()

	<-ctx.Done()
	logger.Info("easeld shutting down")
}
