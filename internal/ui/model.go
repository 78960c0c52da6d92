// Package ui is the bubbletea front end. Its update loop is the single
// serialized path through which AppState changes: key events mutate state
// directly, fetch completions arrive as messages from the scheduler
// goroutine via Program.Send.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/i474232898/termweather/internal/app"
	"github.com/i474232898/termweather/internal/config"
	"github.com/i474232898/termweather/internal/present"
	"github.com/i474232898/termweather/internal/weather"
)

// FetchCompletedMsg delivers a finished fetch into the update loop.
type FetchCompletedMsg struct {
	Outcome weather.Outcome
}

// Refresher is the scheduler surface the UI drives.
type Refresher interface {
	TriggerNow()
	UpdateSettings(loc weather.Location)
	Stop()
}

// KeyedClient lets the settings screen swap the provider API key.
type KeyedClient interface {
	SetAPIKey(string)
}

// Model is the bubbletea model wrapping AppState.
type Model struct {
	state  app.State
	cfg    *config.AppConfig
	sched  Refresher
	client KeyedClient
	log    *zap.Logger

	width  int
	height int

	form       settingsForm
	thresholds present.Thresholds

	// configErr is set when startup configuration was unusable; the
	// settings screen shows it until a valid submit clears it.
	configErr *weather.FetchError
}

// New builds the UI model. When the startup settings do not validate the
// app opens on the settings screen instead of crashing, so the user can
// fix the configuration in place.
func New(cfg *config.AppConfig, sched Refresher, client KeyedClient, log *zap.Logger) Model {
	m := Model{
		state:  app.NewState(cfg.Settings),
		cfg:    cfg,
		sched:  sched,
		client: client,
		log:    log,
		thresholds: present.Thresholds{
			ColdBelowC: cfg.TempColdC,
			HotAtC:     cfg.TempHotC,
		},
	}

	if err := cfg.Settings.Validate(); err != nil {
		m.configErr = weather.Errf(weather.KindConfigInvalid, "%v", err)
		m.form = newSettingsForm(cfg.Settings)
		m.state = m.state.WithScreen(app.ScreenSettings)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.state.Screen == app.ScreenSettings {
		return m.form.focusCmd()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case FetchCompletedMsg:
		m.state = m.state.ApplyOutcome(msg.Outcome)
		return m, nil

	case tea.KeyMsg:
		if m.state.Screen == app.ScreenSettings {
			return m.updateSettings(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sched.Stop()
		return m, tea.Quit

	case "r":
		m.state = m.state.WithRefreshing(true)
		m.sched.TriggerNow()
		return m, nil

	case "s":
		m.form = newSettingsForm(m.state.Settings)
		m.state = m.state.WithScreen(app.ScreenSettings)
		return m, m.form.focusCmd()

	case "1":
		m.state = m.state.WithScreen(app.ScreenCurrent)
	case "2":
		m.state = m.state.WithScreen(app.ScreenHourly)
	case "3":
		m.state = m.state.WithScreen(app.ScreenDaily)
	case "4":
		m.state = m.state.WithScreen(app.ScreenRadar)

	case "tab", "right", "l":
		m.state = m.state.WithScreen(nextScreen(m.state.Screen))
	case "shift+tab", "left", "h":
		m.state = m.state.WithScreen(prevScreen(m.state.Screen))
	}
	return m, nil
}

// updateSettings routes keys to the form and handles submit/cancel.
func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.sched.Stop()
		return m, tea.Quit

	case "esc":
		// Cancel only when there is a working configuration to go back to.
		if m.state.Settings.Validate() == nil {
			m.state = m.state.WithScreen(app.ScreenCurrent)
		}
		return m, nil

	case "enter":
		if m.form.focus == fieldCancel {
			if m.state.Settings.Validate() == nil {
				m.state = m.state.WithScreen(app.ScreenCurrent)
			}
			return m, nil
		}
	}

	var submitted bool
	var cmd tea.Cmd
	m.form, submitted, cmd = m.form.update(msg)
	if !submitted {
		return m, cmd
	}

	settings := m.form.settings()
	if err := settings.Validate(); err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}

	// Apply: new key for the provider client, new state, persisted .env,
	// and exactly one fetch via the scheduler (which also resumes a halt).
	m.client.SetAPIKey(settings.APIKey)
	m.state = m.state.ApplySettings(settings)
	m.configErr = nil
	if err := config.Save(settings, ".env"); err != nil {
		m.log.Warn("failed to persist settings", zap.Error(err))
	}
	m.state = m.state.WithScreen(app.ScreenCurrent).WithRefreshing(true)
	m.sched.UpdateSettings(settings.Location)
	return m, nil
}

func nextScreen(s app.Screen) app.Screen {
	switch s {
	case app.ScreenCurrent:
		return app.ScreenHourly
	case app.ScreenHourly:
		return app.ScreenDaily
	case app.ScreenDaily:
		return app.ScreenRadar
	default:
		return app.ScreenCurrent
	}
}

func prevScreen(s app.Screen) app.Screen {
	switch s {
	case app.ScreenCurrent:
		return app.ScreenRadar
	case app.ScreenHourly:
		return app.ScreenCurrent
	case app.ScreenDaily:
		return app.ScreenHourly
	default:
		return app.ScreenDaily
	}
}
