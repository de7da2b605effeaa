package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/fondantshop/gateway"
	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/di"
	"github.com/example/fondantshop/pkg/discovery"
	"github.com/example/fondantshop/pkg/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting API Gateway",
		zap.Int("port", cfg.Gateway.Port),
		zap.String("host", cfg.Gateway.Host))

	ctx := context.Background()

	var disc discovery.Discoverer
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, logger)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
	} else {
		disc = sd
		defer sd.Close()
	}

	storage, err := di.OpenStorage(ctx, cfg, disc, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer storage.Close()

	gw := gateway.NewGateway(cfg, store.New(storage.Backend, storage.Signal, logger), logger)
	if storage.Mongo != nil {
		gw.WithAudit(storage.Mongo)
	}
	gw.SetupRoutes()

	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	instance := &discovery.ServiceInstance{
		Name: discovery.GatewayService,
		Host: cfg.Gateway.Host,
		Port: cfg.Gateway.Port,
	}
	if sd != nil {
		if err := sd.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register gateway", zap.Error(err))
		}
	}

	logger.Info("Gateway started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-gwErr:
		logger.Fatal("Gateway error", zap.Error(err))
	}

	if sd != nil {
		if err := sd.Deregister(ctx, instance); err != nil {
			logger.Error("Failed to deregister gateway", zap.Error(err))
		}
	}

	logger.Info("Gateway stopped")
}
