package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/di"
	"github.com/example/fondantshop/pkg/discovery"
	"github.com/example/fondantshop/pkg/grpc"
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

	if cfg.Store.Driver == "remote" {
		logger.Fatal("The document store cannot serve a remote backend")
	}

	logger.Info("Starting document store",
		zap.String("driver", cfg.Store.Driver),
		zap.Int("port", cfg.Server.Port))

	ctx := context.Background()

	storage, err := di.OpenStorage(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer storage.Close()

	server := grpc.NewStoreServer(storage.Backend, logger)
	if storage.Mongo != nil {
		server.WithAudit(storage.Mongo)
	}

	if pinger, ok := storage.Backend.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			logger.Warn("Backend ping failed", zap.Error(err))
		} else {
			logger.Info("Backend connected successfully")
		}
	}

	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, logger)
	if err != nil {
		logger.Fatal("Failed to connect to etcd", zap.Error(err))
	}
	defer sd.Close()

	instance := &discovery.ServiceInstance{
		Name: discovery.DocStoreService,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if err := sd.Register(ctx, instance); err != nil {
		logger.Fatal("Failed to register service", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		if err := server.Start(addr); err != nil {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	server.Stop()

	if err := sd.Deregister(ctx, instance); err != nil {
		logger.Error("Failed to deregister service", zap.Error(err))
	}

	logger.Info("Service stopped")
}
