// Package intent is a thin adapter for the web surface: it maps a free-text
// query to a weather intent and a trailing location span. The conversation
// engine does not use it; the model picks tools on that path.
package intent

import "strings"

type Intent string

const (
	IntentAlerts   Intent = "alerts"
	IntentForecast Intent = "forecast"
	IntentHistory  Intent = "history"
	IntentUnknown  Intent = "unknown"
)

var keywords = []struct {
	word   string
	intent Intent
}{
	{"alerts", IntentAlerts},
	{"forecast", IntentForecast},
	{"history", IntentHistory},
}

// Parse detects the first intent keyword and extracts the location text that
// follows it, skipping a leading "in" or "for" preposition.
// "Weather alerts in Texas" yields (IntentAlerts, "Texas").
func Parse(query string) (Intent, string) {
	lower := strings.ToLower(query)
	for _, k := range keywords {
		idx := strings.Index(lower, k.word)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(query[idx+len(k.word):])
		restLower := strings.ToLower(rest)
		for _, prep := range []string{"in ", "for "} {
			if strings.HasPrefix(restLower, prep) {
				rest = strings.TrimSpace(rest[len(prep):])
				break
			}
		}
		return k.intent, strings.Trim(rest, " ?.!,")
	}
	return IntentUnknown, ""
}
