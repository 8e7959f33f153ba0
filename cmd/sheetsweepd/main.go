package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"sheetsweep/internal/config"
	"sheetsweep/internal/logger"
	"sheetsweep/internal/session"
	"sheetsweep/internal/web"
)

const (
	appName    = "Sheetsweep API"
	appVersion = "1.0.0"
	appDesc    = "HTTP service for search-based spreadsheet row cleanup with formatting preserved"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return 1
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		fmt.Printf("❌ Failed to create output directory: %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "sheetsweepd.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if verbose {
		cfg.Print()
	}

	sessions := session.NewManager(cfg)
	server := web.NewServer(sessions, cfg)

	// Shut down cleanly on SIGINT/SIGTERM so in-flight exports can finish.
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error: %v", err)
		}
	}()

	logger.Info("%s v%s listening on http://%s", appName, appVersion, cfg.Addr())
	logger.Info("Upload limit %d bytes; sessions expire after %s idle.", cfg.Upload.MaxFileSize, cfg.Upload.SessionTTL)

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed: %v", err)
		return 1
	}
	<-done

	logger.Info("Server stopped; %d active session(s) discarded.", sessions.Len())
	return 0
}
