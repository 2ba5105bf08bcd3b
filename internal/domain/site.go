package domain

import "strings"

// ThemeMode is the colour scheme handed to the front-end.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ParseThemeMode recognizes "light" and "dark"; anything else reports false.
func ParseThemeMode(value string) (ThemeMode, bool) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	default:
		return ThemeLight, false
	}
}

// Theme is injected into the page shell; it is never global state.
type Theme struct {
	Mode ThemeMode `json:"mode"`
}

// PopularTag is one entry of the sidebar tag list.
type PopularTag struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Trending bool   `json:"trending"`
}

// SiteSettings are the public front-end settings.
type SiteSettings struct {
	OriginURL  string `json:"origin_url"`
	AdClientID string `json:"ad_client_id"`
	Theme      Theme  `json:"theme"`
}
