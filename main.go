package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"siteseek/internal/config"
	"siteseek/internal/eventbus"
	"siteseek/internal/index"
	"siteseek/internal/logging"
	"siteseek/internal/manifest"
	"siteseek/internal/pagestate"
	"siteseek/internal/preview"
	"siteseek/internal/ui"
)

func main() {
	var siteURL string
	var configPath string
	flag.StringVar(&siteURL, "url", "", "Base URL of the content site")
	flag.StringVar(&siteURL, "u", "", "Base URL of the content site (shorthand)")
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.Parse()

	if siteURL == "" && flag.NArg() > 0 {
		siteURL = flag.Arg(0)
	}

	// Load configuration
	configSvc := config.NewService()
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = configSvc.LoadFromPath(configPath)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if siteURL != "" {
		cfg.SiteURL = siteURL
	}
	if cfg.SiteURL == "" {
		fmt.Fprintln(os.Stderr, "No site URL configured. Pass one with -u or set site_url in the config file.")
		os.Exit(1)
	}

	// Pages and the manifest are resolved relative to the base, so it must
	// end with a slash.
	if !strings.HasSuffix(cfg.SiteURL, "/") {
		cfg.SiteURL += "/"
	}
	base, err := url.Parse(cfg.SiteURL)
	if err != nil || !base.IsAbs() {
		fmt.Fprintf(os.Stderr, "Invalid site URL %q\n", cfg.SiteURL)
		os.Exit(1)
	}

	// Set up logging; the TUI owns the terminal so logs go to a file
	logging.Init(logging.Config{
		LogDir: cfg.Log.Dir,
		Level:  cfg.Log.Level,
	})
	defer logging.Close()
	log := logging.Logger(logging.CompUI)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create event bus
	bus := eventbus.New()

	// Per-page element state (checkbox toggles) survives sessions
	statePath := cfg.StateFile
	if statePath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			statePath = filepath.Join(dir, "siteseek", "state.toml")
		}
	}
	states := pagestate.NewStore(statePath)

	// Wire up the pipeline: manifest -> index -> search, and page fetches
	loader := manifest.NewLoader(base, nil, bus)
	idx := index.New(loader, bus)
	fetcher := preview.NewFetcher(base, nil, states)

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, idx, fetcher)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Warn("event channel full, dropping event", "type", string(e.Type()))
		}
	}
	bus.Subscribe(eventbus.EventManifestFailed, forward)
	bus.Subscribe(eventbus.EventIndexReady, forward)
	bus.Subscribe(eventbus.EventIndexFailed, forward)
	bus.Subscribe(eventbus.EventError, forward)

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	go func() {
		<-sigChan
		p.Quit()
	}()

	// Run the UI
	log.Info("starting", "site", cfg.SiteURL)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup
	bus.Close()
	close(eventChan)
	if statePath != "" {
		if err := states.Save(); err != nil {
			log.Error("failed to save page state", "error", err)
		}
	}
	log.Info("exited")
}
