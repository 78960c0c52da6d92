package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/termweather/internal/app"
	"github.com/i474232898/termweather/internal/present"
)

// View renders the active screen. The snapshot is mapped once per render
// and the result shared by the header and the screen body.
func (m Model) View() string {
	if m.state.Screen == app.ScreenSettings {
		return m.viewSettings()
	}

	var vm *present.Model
	if m.state.Snapshot != nil {
		mapped := present.Map(m.state.Snapshot, m.state.Settings, m.thresholds, m.cfg.ASCIIIcons)
		vm = &mapped
	}

	var sections []string
	sections = append(sections, m.viewHeader(vm))

	if vm == nil {
		sections = append(sections, "", m.viewEmpty(), "", m.viewFooter())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.state.LastErr != nil {
		banner := fmt.Sprintf("✗ %s (showing data from %s)", m.state.LastErr.Error(), vm.FetchedAt)
		sections = append(sections, errorStyle.Render(banner))
	}

	switch m.state.Screen {
	case app.ScreenHourly:
		sections = append(sections, "", m.viewHourly(*vm))
	case app.ScreenDaily:
		sections = append(sections, "", m.viewDaily(*vm))
	case app.ScreenRadar:
		sections = append(sections, "", m.viewRadar(*vm))
	default:
		sections = append(sections, "", m.viewCurrent(*vm))
	}

	sections = append(sections, "", m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader(vm *present.Model) string {
	name := m.state.Settings.Location.Key()
	fetched := ""
	if vm != nil {
		name = vm.LocationName
		fetched = mutedStyle.Render("  updated " + vm.FetchedAt)
	}
	title := titleStyle.Render("☂ " + name)
	if m.state.Refreshing {
		fetched += mutedStyle.Render("  ⟳")
	}

	tabs := make([]string, 0, 4)
	for _, s := range []app.Screen{app.ScreenCurrent, app.ScreenHourly, app.ScreenDaily, app.ScreenRadar} {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		if s == m.state.Screen {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title+fetched,
		strings.Join(tabs, "  "),
	)
}

func (m Model) viewEmpty() string {
	if m.state.LastErr != nil {
		return errorStyle.Render("✗ " + m.state.LastErr.Error())
	}
	return mutedStyle.Render("Fetching weather...")
}

func (m Model) viewCurrent(vm present.Model) string {
	c := vm.Current

	art := strings.Join(c.IconArt, "\n")
	details := lipgloss.JoinVertical(lipgloss.Left,
		tierStyle(c.Tier).Bold(true).Render(c.Temperature),
		labelStyle.Render("Feels like ")+c.FeelsLike,
		c.Description,
		"",
		labelStyle.Render("Humidity  ")+c.Humidity,
		labelStyle.Render("Wind      ")+c.Wind,
		labelStyle.Render("Pressure  ")+c.Pressure,
	)

	return boxStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, art, "   ", details))
}

func (m Model) viewHourly(vm present.Model) string {
	rows := make([]string, 0, len(vm.Hourly)+1)
	rows = append(rows, labelStyle.Render(fmt.Sprintf("%-9s %-3s %-9s %-6s %s", "Time", "", "Temp", "Precip", "Conditions")))
	for _, h := range vm.Hourly {
		rows = append(rows, fmt.Sprintf("%-9s %-3s %s %-6s %s",
			h.Time,
			h.Icon,
			tierStyle(h.Tier).Render(fmt.Sprintf("%-9s", h.Temperature)),
			h.Precip,
			mutedStyle.Render(h.Description),
		))
	}
	return m.clipRows(rows)
}

func (m Model) viewDaily(vm present.Model) string {
	rows := make([]string, 0, len(vm.Daily)+1)
	rows = append(rows, labelStyle.Render(fmt.Sprintf("%-5s %-3s %-8s %-8s %s", "Day", "", "High", "Low", "Conditions")))
	for _, d := range vm.Daily {
		rows = append(rows, fmt.Sprintf("%-5s %-3s %s %s %s",
			d.Day,
			d.Icon,
			tierStyle(d.HighTier).Render(fmt.Sprintf("%-8s", d.High)),
			tierStyle(d.LowTier).Render(fmt.Sprintf("%-8s", d.Low)),
			mutedStyle.Render(d.Description),
		))
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewRadar(vm present.Model) string {
	if vm.Radar == nil {
		return mutedStyle.Render("Radar unavailable for the last fetch.")
	}

	cols, rows := m.radarSize()
	grid := present.BucketGrid(vm.Radar.Frame.Sample(cols, rows))

	lines := make([]string, 0, rows+2)
	for y, row := range grid {
		var b strings.Builder
		for x, bucket := range row {
			if y == rows/2 && x == cols/2 {
				// Location marker at the tile center.
				b.WriteString(focusedRowStyle.Render("+"))
				continue
			}
			b.WriteString(radarCells[bucket])
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, "", labelStyle.Render("Precipitation near ")+vm.Radar.Label)
	return strings.Join(lines, "\n")
}

// radarSize fits the grid to the terminal, with a sane floor so the map
// stays readable before the first WindowSizeMsg arrives.
func (m Model) radarSize() (cols, rows int) {
	cols, rows = 48, 16
	if m.width > 8 && m.width-8 < cols {
		cols = m.width - 8
	}
	if m.height > 10 && m.height-10 < rows {
		rows = m.height - 10
	}
	if cols < 8 {
		cols = 8
	}
	if rows < 4 {
		rows = 4
	}
	return cols, rows
}

// clipRows trims long lists to the visible height, keeping the header row.
func (m Model) clipRows(rows []string) string {
	if m.height > 8 && len(rows) > m.height-8 {
		rows = rows[:m.height-8]
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewSettings() string {
	f := m.form

	var sections []string
	sections = append(sections, titleStyle.Render("Settings"), "")

	if m.configErr != nil {
		sections = append(sections, noticeStyle.Render("Configuration incomplete: "+m.configErr.Message), "")
	}

	locType := "City name"
	locLabel := "City"
	if f.byZip {
		locType = "ZIP code"
		locLabel = "ZIP"
	}
	units := "Metric (°C, m/s)"
	if f.units == "imperial" {
		units = "Imperial (°F, mph)"
	}
	clock := "24-hour"
	if f.timeFmt == "12" {
		clock = "12-hour"
	}

	sections = append(sections,
		m.formRow(fieldAPIKey, "API key", f.apiKey.View()),
		m.formRow(fieldLocType, "Locate by", locType),
		m.formRow(fieldLocation, locLabel, f.location.View()),
	)
	if !f.byZip {
		sections = append(sections, m.formRow(fieldState, "State", f.region.View()))
	}
	sections = append(sections,
		m.formRow(fieldCountry, "Country", f.country.View()),
		m.formRow(fieldUnits, "Units", units),
		m.formRow(fieldTimeFmt, "Clock", clock),
		"",
		m.formButton(fieldSave, "[ Save ]")+"  "+m.formButton(fieldCancel, "[ Cancel ]"),
	)

	if f.errMsg != "" {
		sections = append(sections, "", errorStyle.Render("✗ "+f.errMsg))
	}

	sections = append(sections, "",
		helpStyle.Render("↑/↓ move • ←/→ toggle • Enter save • Esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) formRow(field int, label, value string) string {
	pointer := "  "
	styled := labelStyle.Render(fmt.Sprintf("%-10s", label))
	if m.form.focus == field {
		pointer = focusedRowStyle.Render("> ")
	}
	return pointer + styled + value
}

func (m Model) formButton(field int, label string) string {
	if m.form.focus == field {
		return focusedRowStyle.Render(label)
	}
	return mutedStyle.Render(label)
}

func (m Model) viewFooter() string {
	return helpStyle.Render("1-4 screens • tab next • r refresh • s settings • q quit")
}
