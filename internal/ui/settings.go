package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/termweather/internal/config"
	"github.com/i474232898/termweather/internal/weather"
)

// Focusable rows of the settings form, top to bottom.
const (
	fieldAPIKey = iota
	fieldLocType
	fieldLocation
	fieldState
	fieldCountry
	fieldUnits
	fieldTimeFmt
	fieldSave
	fieldCancel
	fieldCount
)

type settingsForm struct {
	apiKey   textinput.Model
	location textinput.Model
	region   textinput.Model
	country  textinput.Model

	byZip   bool
	units   weather.Units
	timeFmt weather.TimeFormat
	focus   int
	errMsg  string
}

func newSettingsForm(s config.Settings) settingsForm {
	f := settingsForm{
		byZip:   s.Location.Zip != "" || s.Location.City == "",
		units:   s.Units,
		timeFmt: s.TimeFormat,
	}
	if f.units == "" {
		f.units = weather.UnitsMetric
	}
	if f.timeFmt == "" {
		f.timeFmt = weather.TimeFormat24
	}

	f.apiKey = textinput.New()
	f.apiKey.Placeholder = "OpenWeather API key"
	f.apiKey.SetValue(s.APIKey)
	f.apiKey.CharLimit = 64

	f.location = textinput.New()
	if f.byZip {
		f.location.SetValue(s.Location.Zip)
	} else {
		f.location.SetValue(s.Location.City)
	}

	f.region = textinput.New()
	f.region.Placeholder = "State (optional)"
	f.region.SetValue(s.Location.State)

	f.country = textinput.New()
	f.country.Placeholder = "Country code"
	f.country.SetValue(s.Location.Country)
	f.country.CharLimit = 2

	f.applyFocus()
	return f
}

func (f settingsForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

// update handles one key. The second return value reports a submit.
func (f settingsForm) update(msg tea.KeyMsg) (settingsForm, bool, tea.Cmd) {
	switch msg.String() {
	case "up", "shift+tab":
		f.focus = (f.focus + fieldCount - 1) % fieldCount
		f.skipRegionIfZip(-1)
		f.applyFocus()
		return f, false, nil

	case "down", "tab":
		f.focus = (f.focus + 1) % fieldCount
		f.skipRegionIfZip(1)
		f.applyFocus()
		return f, false, nil

	case "left", "right", " ":
		switch f.focus {
		case fieldLocType:
			f.byZip = !f.byZip
			f.location.SetValue("")
			return f, false, nil
		case fieldUnits:
			if f.units == weather.UnitsMetric {
				f.units = weather.UnitsImperial
			} else {
				f.units = weather.UnitsMetric
			}
			return f, false, nil
		case fieldTimeFmt:
			if f.timeFmt == weather.TimeFormat24 {
				f.timeFmt = weather.TimeFormat12
			} else {
				f.timeFmt = weather.TimeFormat24
			}
			return f, false, nil
		}

	case "enter":
		switch f.focus {
		case fieldSave:
			return f, true, nil
		default:
			f.focus = fieldSave
			f.applyFocus()
			return f, false, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldAPIKey:
		f.apiKey, cmd = f.apiKey.Update(msg)
	case fieldLocation:
		f.location, cmd = f.location.Update(msg)
	case fieldState:
		f.region, cmd = f.region.Update(msg)
	case fieldCountry:
		f.country, cmd = f.country.Update(msg)
	}
	return f, false, cmd
}

// skipRegionIfZip jumps over the state row when locating by ZIP code.
func (f *settingsForm) skipRegionIfZip(dir int) {
	if f.byZip && f.focus == fieldState {
		f.focus = (f.focus + dir + fieldCount) % fieldCount
	}
}

func (f *settingsForm) applyFocus() {
	inputs := []*textinput.Model{&f.apiKey, &f.location, &f.region, &f.country}
	fields := []int{fieldAPIKey, fieldLocation, fieldState, fieldCountry}
	for i, in := range inputs {
		if f.focus == fields[i] {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// settings assembles a Settings value from the form fields.
func (f settingsForm) settings() config.Settings {
	loc := weather.Location{
		Country: strings.ToUpper(strings.TrimSpace(f.country.Value())),
	}
	if f.byZip {
		loc.Zip = strings.TrimSpace(f.location.Value())
	} else {
		loc.City = strings.TrimSpace(f.location.Value())
		loc.State = strings.TrimSpace(f.region.Value())
	}
	return config.Settings{
		APIKey:     strings.TrimSpace(f.apiKey.Value()),
		Location:   loc,
		Units:      f.units,
		TimeFormat: f.timeFmt,
	}
}
