package present

import "github.com/i474232898/termweather/internal/weather"

// glyphs maps OpenWeather icon codes to single-cell symbols.
var glyphs = map[weather.IconCode]string{
	"01d": "☀",
	"01n": "☾",
	"02d": "⛅",
	"02n": "☁",
	"03d": "☁",
	"03n": "☁",
	"04d": "☁",
	"04n": "☁",
	"09d": "☂",
	"09n": "☂",
	"10d": "☂",
	"10n": "☂",
	"11d": "⚡",
	"11n": "⚡",
	"13d": "❄",
	"13n": "❄",
	"50d": "≡",
	"50n": "≡",
}

// asciiGlyphs is the pure-ASCII fallback for terminals without wide glyph
// support.
var asciiGlyphs = map[weather.IconCode]string{
	"01d": "(*)",
	"01n": "[ ]",
	"02d": "(_)",
	"02n": "[-]",
	"03d": "(__)",
	"03n": "(__)",
	"04d": "(@@)",
	"04n": "(@@)",
	"09d": "|||",
	"09n": "|||",
	"10d": ".|.",
	"10n": ".|.",
	"11d": "/V\\",
	"11n": "/V\\",
	"13d": "***",
	"13n": "***",
	"50d": "===",
	"50n": "===",
}

// artAliases folds night codes without dedicated art onto their day
// counterparts.
var artAliases = map[weather.IconCode]weather.IconCode{
	"03n": "03d",
	"04n": "04d",
	"09n": "09d",
	"10n": "09d",
	"11n": "11d",
	"13n": "13d",
	"50n": "50d",
}

// art holds the large current-conditions pictures, one string per line.
var art = map[weather.IconCode][]string{
	"01d": {
		`    \   |   /`,
		`     \  |  /`,
		`   ----(*)----`,
		`     /  |  \`,
		`    /   |   \`,
	},
	"01n": {
		`    *  *   *`,
		`  *    ___   *`,
		`      (   )`,
		`     *(___)  *`,
		`    *  *   *`,
	},
	"02d": {
		`   \  ___   /`,
		`    _(   )_`,
		`   (_______)`,
		`      \*/`,
	},
	"02n": {
		`    ___   *`,
		`  _(   )_   *`,
		` (_______)`,
		`   *  ()  *`,
	},
	"03d": {
		`     ___`,
		`   _(   )_`,
		`  (_______)`,
	},
	"04d": {
		`    ___   ___`,
		`  _(   )_(   )`,
		` (____________)`,
	},
	"09d": {
		`     ____`,
		`   _(    )_`,
		`  (________)`,
		`   | | | |`,
		`   | | | |`,
	},
	"10d": {
		` \   ____   /`,
		`   _(    )_`,
		`  (________)`,
		`   | | | |`,
	},
	"11d": {
		`     ____`,
		`   _(    )_`,
		`  (________)`,
		`   | /| /|`,
		`   |/ |/ |`,
	},
	"13d": {
		`     ____`,
		`   _(    )_`,
		`  (________)`,
		`   *  *  *`,
		`    *  *`,
	},
	"50d": {
		`  ==========`,
		` ============`,
		`  ==========`,
		` ============`,
	},
}

var artFallback = []string{
	`   ?????`,
	`   ?   ?`,
	`   ?   ?`,
	`   ?????`,
}

// Glyph returns the small icon for a condition code, "?" when unknown.
func Glyph(code weather.IconCode, ascii bool) string {
	table := glyphs
	if ascii {
		table = asciiGlyphs
	}
	if g, ok := table[code]; ok {
		return g
	}
	if ascii {
		return "???"
	}
	return "?"
}

// Art returns the large picture for a condition code, resolving night
// aliases and falling back to a placeholder for unknown codes.
func Art(code weather.IconCode) []string {
	if alias, ok := artAliases[code]; ok {
		code = alias
	}
	if a, ok := art[code]; ok {
		return a
	}
	return artFallback
}
