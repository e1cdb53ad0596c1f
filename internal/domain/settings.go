package domain

// ColorTheme selects the hue convention for gain/loss coloring.
// ThemeGlobal renders gains green and losses red; ThemeKorea inverts the
// assignment (red = gain, blue = loss), matching Korean market convention.
type ColorTheme string

const (
	ThemeGlobal ColorTheme = "global"
	ThemeKorea  ColorTheme = "korea"
)

// Valid reports whether the theme is one of the known values
func (t ColorTheme) Valid() bool {
	return t == ThemeGlobal || t == ThemeKorea
}

// Settings holds the user-tunable preferences persisted by the settings
// store: the quote-source credential and the display theme.
// An empty QuoteAPIKey is a legal state — price refresh degrades to an
// explained no-op rather than failing.
type Settings struct {
	QuoteAPIKey string
	Theme       ColorTheme
}

// DefaultSettings returns the settings used when nothing has been saved yet
func DefaultSettings() Settings {
	return Settings{Theme: ThemeGlobal}
}
