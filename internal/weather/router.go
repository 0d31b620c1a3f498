package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumanth-CBRE/Weatherbot/internal/location"
	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

const (
	providerNWS       = "nws"
	providerOpenMeteo = "open-meteo"
	providerNone      = "none"
)

// Router picks the backend for a resolved location and normalizes whatever
// it returns into a ProviderResponse. Unresolved locations short-circuit to
// not_found without any network call.
type Router struct {
	nws   *NWSClient
	meteo *OpenMeteoClient
}

func NewRouter(nws *NWSClient, meteo *OpenMeteoClient) *Router {
	return &Router{nws: nws, meteo: meteo}
}

// Fetch returns weather data of the given kind for a location. It never
// returns a transport error; upstream failures surface as
// StatusUpstreamError with a diagnostic payload.
func (r *Router) Fetch(ctx context.Context, kind Kind, loc location.Location) ProviderResponse {
	if loc.Region == location.RegionUnresolved {
		note := loc.Note
		if note == "" {
			note = fmt.Sprintf("Location %q could not be resolved.", loc.Query)
		}
		return ProviderResponse{Provider: providerNone, Status: StatusNotFound, Payload: note}
	}

	switch kind {
	case KindAlerts:
		return r.fetchAlerts(ctx, loc)
	case KindForecast:
		return r.fetchForecast(ctx, loc)
	case KindHistory:
		// The domestic service has no history endpoint, so every resolved
		// region routes to the global archive.
		payload, err := r.meteo.History(ctx, loc.Lat, loc.Lon)
		if err != nil {
			return upstreamError(providerOpenMeteo, err)
		}
		return ProviderResponse{Provider: providerOpenMeteo, Status: StatusOK, Payload: payload}
	default:
		return ProviderResponse{
			Provider: providerNone,
			Status:   StatusUpstreamError,
			Payload:  fmt.Sprintf("Unsupported weather data kind %q.", kind),
		}
	}
}

func (r *Router) fetchAlerts(ctx context.Context, loc location.Location) ProviderResponse {
	if loc.Region != location.RegionDomestic {
		return ProviderResponse{
			Provider: providerNone,
			Status:   StatusNotFound,
			Payload:  "Weather alerts are only available for US locations.",
		}
	}
	payload, err := r.nws.Alerts(ctx, loc.Query)
	if err != nil {
		return upstreamError(providerNWS, err)
	}
	return ProviderResponse{Provider: providerNWS, Status: StatusOK, Payload: payload}
}

func (r *Router) fetchForecast(ctx context.Context, loc location.Location) ProviderResponse {
	if loc.Region == location.RegionDomestic {
		payload, err := r.nws.Forecast(ctx, loc.Lat, loc.Lon)
		if err == nil {
			return ProviderResponse{Provider: providerNWS, Status: StatusOK, Payload: payload}
		}
		if !errors.Is(err, ErrNotCovered) {
			return upstreamError(providerNWS, err)
		}
		// Domestic-classified coordinates outside NWS coverage fall back to
		// the global service rather than failing the query.
		logx.Debug().Str("query", loc.Query).Msg("NWS does not cover location, using global fallback")
	}
	payload, err := r.meteo.Current(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return upstreamError(providerOpenMeteo, err)
	}
	return ProviderResponse{Provider: providerOpenMeteo, Status: StatusOK, Payload: payload}
}

func upstreamError(provider string, err error) ProviderResponse {
	return ProviderResponse{
		Provider: provider,
		Status:   StatusUpstreamError,
		Payload:  fmt.Sprintf("The %s weather service could not be reached: %v", provider, err),
	}
}
