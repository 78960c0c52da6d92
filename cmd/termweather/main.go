package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/i474232898/termweather/internal/config"
	"github.com/i474232898/termweather/internal/logging"
	"github.com/i474232898/termweather/internal/radar"
	"github.com/i474232898/termweather/internal/refresh"
	"github.com/i474232898/termweather/internal/ui"
	"github.com/i474232898/termweather/internal/weather"
	"github.com/i474232898/termweather/internal/weather/openweather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cache := radar.NewCache(cfg.RadarCacheSize, cfg.RadarCacheAge)
	client := openweather.New(cfg.Settings.APIKey, cfg.FetchTimeout, cfg.RadarZoom, cache, logger)

	sched := refresh.New(client, cfg.Settings.Location, cfg.RefreshInterval,
		cfg.FetchTimeout, cfg.BackoffFactor, cfg.BackoffMax, logger)

	m := ui.New(cfg, sched, client, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Fetch completions cross from the scheduler goroutine into the
	// update loop as messages; Send is the only channel between them.
	sched.SetNotify(func(o weather.Outcome) {
		p.Send(ui.FetchCompletedMsg{Outcome: o})
	})

	if err := sched.Start(); err != nil {
		logger.Error("scheduler start failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to start scheduler: %v\n", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Kick off the first fetch immediately when the configuration is
	// usable; otherwise the UI opens on the settings screen and the
	// first fetch follows the save.
	if cfg.Settings.Validate() == nil {
		sched.TriggerNow()
	}

	if _, err := p.Run(); err != nil {
		logger.Error("ui terminated", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
