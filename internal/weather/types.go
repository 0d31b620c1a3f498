// Package weather routes weather lookups to the authoritative domestic
// service or the global fallback and normalizes their responses.
package weather

// Kind selects the class of weather data to fetch.
type Kind string

const (
	KindAlerts   Kind = "alerts"
	KindForecast Kind = "forecast"
	KindHistory  Kind = "history"
)

// Status reports the outcome of a provider fetch. Callers branch on Status
// and never assume ok.
type Status string

const (
	StatusOK            Status = "ok"
	StatusNotFound      Status = "not_found"
	StatusUpstreamError Status = "upstream_error"
)

// ProviderResponse is the common result shape for every provider. Payload is
// always normalized plain text: an alerts list, forecast periods, a
// historical series, or a diagnostic explanation.
type ProviderResponse struct {
	Provider string
	Status   Status
	Payload  string
}
