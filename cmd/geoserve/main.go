/*
Package main implements the place-name search server and CLI application.

GeoServe answers free-text queries ("sofi", "burgas") with ranked geographic
entities: countries, capitals, cities, towns, villages and landmarks. It
keeps memory and startup cost low by loading detailed per-country datasets
only when the map viewport enters that country at sufficient zoom.

The default mode starts a MessagePack IPC server that processes search and
viewport requests from stdin and writes responses to stdout, for integration
with a map application host process.

# Usage

Start the server reading datasets from a local directory:

	geoserve -data /path/to/datasets

Fetch datasets over HTTP instead:

	geoserve -url https://tiles.example.com/search

Run in CLI mode for interactive testing:

	geoserve -c -limit 10

In CLI mode, type a place name to search, or "@lat,lng,zoom" to simulate a
map viewport event and watch per-country detail datasets load.

# Datasets

The data root must contain base.json (countries, capitals, landmarks) and may
contain cities-major.json, country-bounds.json and countries/<cc>.json detail
files keyed by lowercase country code. Only base.json is required; the other
tiers degrade gracefully when absent.

# Configuration

Runtime configuration is managed through a TOML file that is created with
defaults when missing:

	[search]
	default_limit = 10
	max_limit = 50
	max_query_len = 60

	[data]
	dir = "data/"
	priority_country = "bg"
	min_detail_zoom = 7

	[index]
	resolution = 9
	cache_size = 128
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/geoserve/internal/cli"
	"github.com/bastiangx/geoserve/internal/logger"
	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/bastiangx/geoserve/pkg/config"
	"github.com/bastiangx/geoserve/pkg/dataset"
	"github.com/bastiangx/geoserve/pkg/search"
	"github.com/bastiangx/geoserve/pkg/server"
)

const (
	Version = "0.3.0"
	AppName = "geoserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, fetcher and engine together and hands control to the
// server or the CLI. It does not implement search logic itself.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing the JSON datasets")
	baseURL := flag.String("url", "", "Base URL to fetch datasets from (overrides -data)")
	configPath := flag.String("config", "", "Path to a config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of results to return (default from config)")
	fuzzy := flag.Bool("fuzzy", true, "Use the typo-tolerant fallback in CLI mode")
	flag.Parse()

	if *showVersion {
		banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)
		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		banner.SetStyles(styles)
		banner.Print("[ GeoServe ] Typo-tolerant place search for maps")
		banner.Print("", "version", Version)
		banner.Print("use -h or --help to see available options")
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(activePath))

	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *baseURL != "" {
		cfg.Data.BaseURL = *baseURL
	}
	if *limit <= 0 {
		*limit = cfg.Search.DefaultLimit
	}

	var fetcher dataset.Fetcher
	if cfg.Data.BaseURL != "" {
		log.Debugf("Fetching datasets from: %s", cfg.Data.BaseURL)
		fetcher = dataset.NewHTTPFetcher(cfg.Data.BaseURL)
	} else {
		log.Debugf("Using data dir at: %s", cfg.Data.Dir)
		fetcher = dataset.NewFileFetcher(cfg.Data.Dir)
	}

	engine := search.New(cfg, fetcher)
	ctx := context.Background()
	if err := engine.Initialize(ctx); err != nil {
		log.Fatalf("Failed to init search engine: %v", err)
	}
	log.Debug("Engine init done")

	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(engine, cfg.Search.MaxQueryLen, *limit, *fuzzy)
		if err := inputHandler.Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	showStartupInfo(engine)

	srv := server.NewServer(engine, cfg)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(engine *search.Engine) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	st := engine.Status()
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("locations indexed: %d", st.LocationCount)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
