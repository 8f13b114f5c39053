package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-forecaster/src/grpc_api"
	"stock-forecaster/src/scheduler"
	"stock-forecaster/src/server"
)

// -----------------------------------------------------------------------------

// runServers starts HTTP, gRPC and the refresher, then blocks until
// SIGINT or SIGTERM and shuts them down in order.
func runServers(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. HTTP server with websocket hub
	httpServer := server.NewHTTPServer(a.Config.MConfig, a.Pipeline, a.Store, a.Logger)
	go func() {
		if err := httpServer.Start(); err != nil {
			a.Logger.Critical("HTTP server failed: %v", err)
		}
	}()

	// 2. gRPC server
	grpcServer := grpc_api.NewGRPCServer(a.Config.MConfig, a.Pipeline)
	go func() {
		if err := grpcServer.Start(); err != nil {
			a.Logger.Critical("gRPC server failed: %v", err)
		}
	}()

	// 3. Watchlist refresher
	var refresher *scheduler.Refresher
	if a.Config.Scheduler.Enabled && len(a.Config.Scheduler.Watchlist) > 0 {
		var err error
		refresher, err = scheduler.NewRefresher(a.Config.MConfig, a.Pipeline)
		if err != nil {
			return err
		}
		refresher.Start(ctx)
	}

	<-ctx.Done()
	a.Logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warning("HTTP shutdown: %v", err)
	}
	grpcServer.Stop()
	if refresher != nil {
		refresher.Stop()
	}

	a.Logger.Info("Shutdown complete.")
	return nil
}
