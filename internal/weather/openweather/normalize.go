package openweather

import (
	"sort"
	"time"

	"github.com/i474232898/termweather/internal/weather"
)

// hourlyEntries is the length of the gap-free hourly series. The free
// forecast endpoint returns 3-hour slots, so each slot expands to three
// hour points.
const (
	hourlyEntries = 24
	slotHours     = 3
	dailyEntries  = 5
)

type conditionPayload struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentPayload struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather  []conditionPayload `json:"weather"`
	Timezone int                `json:"timezone"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []conditionPayload `json:"weather"`
		Pop     float64            `json:"pop"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

type geoZipPayload struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type geoDirectPayload []struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// buildSnapshot validates the provider payloads and assembles the
// canonical snapshot. Values arrive already metric and are stored as-is;
// unit conversion happens only at presentation time.
func buildSnapshot(loc weather.Location, cur currentPayload, fc forecastPayload, fetchedAt time.Time) (*weather.Snapshot, *weather.FetchError) {
	if len(cur.Weather) == 0 {
		return nil, weather.Errf(weather.KindMalformed, "current conditions missing weather block")
	}
	if len(fc.List) < hourlyEntries/slotHours {
		return nil, weather.Errf(weather.KindMalformed, "forecast has %d slots, need %d", len(fc.List), hourlyEntries/slotHours)
	}

	tz := time.FixedZone("local", fc.City.Timezone)

	snap := &weather.Snapshot{
		FetchedAt: fetchedAt,
		Location:  loc,
		Current: weather.CurrentConditions{
			TempC:       cur.Main.Temp,
			FeelsLikeC:  cur.Main.FeelsLike,
			Humidity:    cur.Main.Humidity,
			WindMS:      cur.Wind.Speed,
			PressureHPa: cur.Main.Pressure,
			Description: cur.Weather[0].Description,
			Icon:        weather.IconCode(cur.Weather[0].Icon),
			ObservedAt:  time.Unix(cur.Dt, 0).In(tz),
		},
	}

	snap.Hourly = buildHourly(fc, tz)
	snap.Daily = buildDaily(fc, tz)
	return snap, nil
}

func buildHourly(fc forecastPayload, tz *time.Location) []weather.HourPoint {
	hourly := make([]weather.HourPoint, 0, hourlyEntries)
	for _, slot := range fc.List {
		if len(hourly) >= hourlyEntries {
			break
		}
		icon := weather.IconCode("")
		desc := ""
		if len(slot.Weather) > 0 {
			icon = weather.IconCode(slot.Weather[0].Icon)
			desc = slot.Weather[0].Description
		}
		base := time.Unix(slot.Dt, 0).In(tz)
		for h := 0; h < slotHours && len(hourly) < hourlyEntries; h++ {
			hourly = append(hourly, weather.HourPoint{
				At:          base.Add(time.Duration(h) * time.Hour),
				TempC:       slot.Main.Temp,
				Icon:        icon,
				Description: desc,
				PrecipProb:  slot.Pop,
			})
		}
	}
	return hourly
}

func buildDaily(fc forecastPayload, tz *time.Location) []weather.DayPoint {
	type dayAgg struct {
		point weather.DayPoint
	}
	days := make(map[string]*dayAgg)
	for _, slot := range fc.List {
		ts := time.Unix(slot.Dt, 0).In(tz)
		key := ts.Format("2006-01-02")
		agg, ok := days[key]
		if !ok {
			icon := weather.IconCode("")
			desc := ""
			if len(slot.Weather) > 0 {
				icon = weather.IconCode(slot.Weather[0].Icon)
				desc = slot.Weather[0].Description
			}
			days[key] = &dayAgg{point: weather.DayPoint{
				Date:        time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, tz),
				MinC:        slot.Main.TempMin,
				MaxC:        slot.Main.TempMax,
				Icon:        icon,
				Description: desc,
				PrecipProb:  slot.Pop,
			}}
			continue
		}
		if slot.Main.TempMin < agg.point.MinC {
			agg.point.MinC = slot.Main.TempMin
		}
		if slot.Main.TempMax > agg.point.MaxC {
			agg.point.MaxC = slot.Main.TempMax
		}
		if slot.Pop > agg.point.PrecipProb {
			agg.point.PrecipProb = slot.Pop
		}
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	daily := make([]weather.DayPoint, 0, dailyEntries)
	for _, k := range keys {
		if len(daily) >= dailyEntries {
			break
		}
		daily = append(daily, days[k].point)
	}
	return daily
}
