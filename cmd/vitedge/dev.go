package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sukiejosh/vitedge/internal/config"
	"github.com/sukiejosh/vitedge/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port         int
		host         string
		viteURL      string
		functionsURL string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server.

The dev server watches the functions directory, keeps the route
tables current, and proxies everything else to Vite.

Features:
  • Route tables rebuilt on file add and remove
  • Props endpoint list pushed to connected browsers
  • Browser reload when a served function changes
  • Prometheus metrics (if enabled in vitedge.json)

Examples:
  vitedge dev
  vitedge dev --port=8080
  vitedge dev --vite=http://localhost:5174`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host, viteURL, functionsURL, verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from vitedge.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from vitedge.json)")
	cmd.Flags().StringVar(&viteURL, "vite", "", "Vite dev server URL (default from vitedge.json)")
	cmd.Flags().StringVar(&functionsURL, "functions-url", "", "Function runtime URL (default from vitedge.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	return cmd
}

func runDev(port int, host, viteURL, functionsURL string, verbose bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if viteURL != "" {
		cfg.Dev.ViteURL = viteURL
	}
	if functionsURL != "" {
		cfg.Dev.FunctionsURL = functionsURL
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	server, err := dev.NewServer(dev.ServerOptions{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
	}()

	info("Serving %s", cfg.DevURL())
	info("Proxying to Vite at %s", cfg.Dev.ViteURL)
	if cfg.Dev.FunctionsURL == "" {
		info("No function runtime configured; function routes answer 501")
	}
	fmt.Println()

	return server.Start(ctx)
}
