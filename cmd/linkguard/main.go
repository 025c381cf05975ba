package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phishguard/linkguard/internal/core"
	"github.com/phishguard/linkguard/internal/di"
	"github.com/phishguard/linkguard/internal/ports"
	"github.com/phishguard/linkguard/internal/warning"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	monitor ports.Monitor,
	warnServer *warning.Server,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	// Start the local warning surface before anything can escalate to it
	if err := warnServer.Start(); err != nil {
		logger.Fatal("Failed to start warning surface", zap.Error(err))
		return err
	}

	// Attach to the browser and start intercepting
	if err := monitor.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start browser monitor", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := monitor.Stop(); err != nil {
		logger.Error("Failed to stop browser monitor", zap.Error(err))
	}
	if err := warnServer.Stop(); err != nil {
		logger.Error("Failed to stop warning surface", zap.Error(err))
	}

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
