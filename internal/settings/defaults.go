package settings

// Keys the calendar refresh task and override layer read.
const (
	KeyCountdownEnabled   = "countdown_enabled"
	KeyCountdownMode      = "countdown_mode"
	KeyCountdownTitle     = "countdown_title"
	KeyCountdownTarget    = "countdown_target"
	KeyCalendarURL        = "calendar_url"
	KeyCalendarFilter     = "calendar_filter"
	CountdownModeManual   = "manual"
	CountdownModeCalendar = "calendar"
)

// Defaults returns a fresh default document. It enumerates every recognized
// key; Get fills any key missing from the persisted file from here.
func Defaults() Document {
	return Document{
		"theme":            "dark",
		"background_color": "#000000",
		"text_color":       "#ffffff",

		"screensaver_enabled": false,
		"screensaver_timeout": 300,
		"screensaver_type":    "black",
		"custom_css":          "",

		// Corporate identity and contact.
		"logo_url":         "",
		"contact_name":     "",
		"contact_phone":    "",
		"contact_homepage": "",

		// Countdown.
		KeyCountdownEnabled:    false,
		KeyCountdownMode:       CountdownModeManual,
		KeyCountdownTarget:     "",
		KeyCalendarURL:         "",
		KeyCalendarFilter:      "",
		KeyCountdownTitle:      "Countdown",
		"countdown_show_timer": true,
		"countdown_show_date":  true,

		// Appearance.
		"font_scale": 100,
	}
}
