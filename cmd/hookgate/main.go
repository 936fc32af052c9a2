package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hookgate/hookgate/internal/config"
	"github.com/hookgate/hookgate/internal/event"
	"github.com/hookgate/hookgate/internal/journal"
	"github.com/hookgate/hookgate/internal/log"
	"github.com/hookgate/hookgate/internal/webhook"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "deliveries":
		os.Exit(runDeliveriesNoun(args))
	case "version":
		fmt.Printf("hookgate version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`hookgate - GitHub webhook receiver with HMAC-verified ingestion

Usage:
  hookgate <command> [flags]

Commands:
  start             Run the webhook receiver in foreground
  config check      Validate configuration and print its fingerprint
  deliveries list   Show recent deliveries from the journal
  version           Show version information
  help              Show this help message

Flags:
  --config <path>   Path to configuration file (default: discovered)
`)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("hookgate starting", "version", version, "config", path)

	if fp, err := config.Fingerprint(path); err == nil {
		logger.Info("config fingerprint", "blake3", fp)
	}

	maxBodySize, err := config.ParseMaxBodySize(cfg.Webhook.MaxBodySize)
	if err != nil {
		logger.Error("invalid max_body_size", "value", cfg.Webhook.MaxBodySize, "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorder webhook.DeliveryRecorder
	if cfg.Journal.Enabled {
		j, err := journal.Open(ctx, cfg.Journal.Path)
		if err != nil {
			logger.Error("failed to open delivery journal", "path", cfg.Journal.Path, "error", err)
			return 1
		}
		defer j.Close()
		logger.Info("delivery journal opened", "path", cfg.Journal.Path)
		recorder = j
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	server := webhook.New(webhook.Config{
		Listen:          cfg.Webhook.Listen,
		Path:            cfg.Webhook.Path,
		Secret:          cfg.Webhook.Secret,
		SignatureHeader: cfg.Webhook.SignatureHeader,
		MaxBodySize:     maxBodySize,
		MetricsPath:     metricsPath,
	}, event.NewRouter(), recorder, log.WithComponent("webhook"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	// Start blocks until shutdown completes, so the journal stays open for
	// in-flight deliveries.
	if err := server.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("webhook server failed", "error", err)
		return 1
	}

	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 || args[0] == "help" {
		fmt.Println("Usage: hookgate config check [--config <path>]")
		if len(args) < 1 {
			return 1
		}
		return 0
	}

	switch args[0] {
	case "check":
		return runConfigCheck(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", args[0])
		return 1
	}
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("config check", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config check failed: %v\n", err)
		return 1
	}

	fp, err := config.Fingerprint(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fingerprint config: %v\n", err)
		return 1
	}

	fmt.Printf("Config OK: %s\n", path)
	fmt.Printf("Fingerprint (blake3): %s\n", fp)
	fmt.Printf("Webhook endpoint: POST %s%s\n", cfg.Webhook.Listen, cfg.Webhook.Path)
	if cfg.Webhook.Secret == "" {
		fmt.Println("Warning: webhook secret is empty, all deliveries will be rejected")
	}
	return 0
}

func runDeliveriesNoun(args []string) int {
	if len(args) < 1 || args[0] == "help" {
		fmt.Println("Usage: hookgate deliveries list [--config <path>] [--limit <n>]")
		if len(args) < 1 {
			return 1
		}
		return 0
	}

	switch args[0] {
	case "list":
		return runDeliveriesList(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown deliveries action: %s\n", args[0])
		return 1
	}
}

func runDeliveriesList(args []string) int {
	fs := flag.NewFlagSet("deliveries list", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	limit := fs.Int("limit", 20, "Maximum number of deliveries to show")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	if !cfg.Journal.Enabled {
		fmt.Fprintln(os.Stderr, "Delivery journal is not enabled in config")
		return 1
	}

	ctx := context.Background()
	j, err := journal.Open(ctx, cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open journal: %v\n", err)
		return 1
	}
	defer j.Close()

	entries, err := j.List(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list deliveries: %v\n", err)
		return 1
	}

	if len(entries) == 0 {
		fmt.Println("No deliveries recorded")
		return 0
	}

	fmt.Printf("%-30s  %-20s  %-12s  %-15s  %s\n", "RECEIVED", "EVENT", "ACTION", "OUTCOME", "DELIVERY_ID")
	for _, e := range entries {
		fmt.Printf("%-30s  %-20s  %-12s  %-15s  %s\n",
			e.ReceivedAt.Format("2006-01-02T15:04:05Z"), e.Event, e.Action, e.Outcome, e.DeliveryID)
	}
	return 0
}

// loadConfig resolves the config path (discovering one when not given) and
// loads it. Returns the parsed config and the resolved path.
func loadConfig(configPath string) (*config.Config, string, error) {
	if configPath == "" {
		discovered, err := config.DiscoverConfigPath()
		if err != nil {
			return nil, "", err
		}
		configPath = discovered
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}
