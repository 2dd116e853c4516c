package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tattle/src/internal/config"
	"tattle/src/internal/core"
	"tattle/src/internal/version"
	"tattle/src/telemetry"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	flagCfg, err := ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Set config file environment if specified
	if flagCfg.ConfigFile != "" {
		os.Setenv("TATTLE_CONFIG_FILE", flagCfg.ConfigFile)
	}

	cfg, err := config.LoadWithCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := initializeLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer shutdownLogger()

	logger.Info("msg", "tattle starting",
		"version", version.String(),
		"config_file", flagCfg.ConfigFile)

	svc, err := telemetry.New(&cfg.Telemetry, logger)
	if err != nil {
		logger.Error("msg", "Failed to start telemetry service", "error", err)
		shutdownLogger()
		os.Exit(1)
	}

	// One-shot connectivity check: dispatch a test event, flush, exit
	if flagCfg.TestEvent {
		svc.Dispatch(core.LevelError, "tattle", "tattle connectivity test event", telemetry.DispatchNormal)
		svc.Shutdown()
		logger.Info("msg", "Test event dispatched", "stats", svc.Stats())
		return
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)
	sig := <-sigChan

	logger.Info("msg", "Shutdown signal received, starting graceful shutdown...",
		"signal", sig.String())

	// Shutdown with timeout
	done := make(chan struct{})
	go func() {
		svc.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete", "stats", svc.Stats())
	case <-time.After(10 * time.Second):
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		os.Exit(1)
	}
}
