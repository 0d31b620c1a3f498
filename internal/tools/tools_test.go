package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sumanth-CBRE/Weatherbot/internal/location"
	"github.com/Sumanth-CBRE/Weatherbot/internal/weather"
)

type stubGeocoder struct {
	res   location.GeoResult
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(context.Context, string) (location.GeoResult, error) {
	g.calls++
	if g.err != nil {
		return location.GeoResult{}, g.err
	}
	return g.res, nil
}

// newTestRouter points both providers at one stub server and counts hits.
func newTestRouter(t *testing.T, handler http.HandlerFunc) (*weather.Router, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	nws := weather.NewNWSClient(srv.URL, "weatherbot-test/1.0", 5*time.Second)
	meteo := weather.NewOpenMeteoClient(srv.URL+"/forecast", srv.URL+"/archive", 5*time.Second)
	return weather.NewRouter(nws, meteo), &hits
}

func TestManagerUnknownTool(t *testing.T) {
	m := NewManager()
	_, err := m.Execute(context.Background(), "get_stock_price", "{}")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("err = %v, want ErrUnknownTool", err)
	}
}

func TestManagerDefinitions(t *testing.T) {
	router, _ := newTestRouter(t, http.NotFound)
	m := NewManager()
	m.Register(NewAlertsTool(router))
	if m.Count() != 1 {
		t.Fatalf("count = %d", m.Count())
	}
	defs := m.Definitions()
	if len(defs) != 1 || defs[0].Function.Name != "get_alerts" {
		t.Fatalf("definitions = %+v", defs)
	}
	if defs[0].Type != ToolTypeFunction {
		t.Fatalf("tool type = %q", defs[0].Type)
	}
}

func TestAlertsToolInvalidArguments(t *testing.T) {
	router, hits := newTestRouter(t, http.NotFound)
	tool := NewAlertsTool(router)

	for _, args := range []string{"not json", `{}`, `{"state":""}`} {
		_, err := tool.Execute(context.Background(), args)
		if !errors.Is(err, ErrInvalidArguments) {
			t.Fatalf("Execute(%q) err = %v, want ErrInvalidArguments", args, err)
		}
	}
	if *hits != 0 {
		t.Fatalf("invalid arguments reached the network %d times", *hits)
	}
}

func TestAlertsToolUnknownState(t *testing.T) {
	router, hits := newTestRouter(t, http.NotFound)
	tool := NewAlertsTool(router)

	out, err := tool.Execute(context.Background(), `{"state":"Bavaria"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Bavaria") {
		t.Fatalf("output %q does not mention the rejected state", out)
	}
	if *hits != 0 {
		t.Fatalf("unknown state reached the network %d times", *hits)
	}
}

func TestAlertsToolFetchesState(t *testing.T) {
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alerts/active/area/TX" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"features":[{"properties":{"event":"Flood Watch","areaDesc":"Texas","severity":"Severe","description":"d","instruction":"i"}}]}`)
	})
	tool := NewAlertsTool(router)

	// Full state names normalize to their two-letter code.
	out, err := tool.Execute(context.Background(), `{"state":"Texas"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Flood Watch") {
		t.Fatalf("output = %q", out)
	}
}

func TestForecastToolInternational(t *testing.T) {
	geo := &stubGeocoder{res: location.GeoResult{Lat: 48.85, Lon: 2.35, CountryCode: "fr"}}
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s for international forecast", r.URL.Path)
		}
		fmt.Fprint(w, `{"current_weather":{"temperature":21.0,"windspeed":8.0,"weathercode":0}}`)
	})
	resolver := location.NewResolver(geo, nil, "us")
	tool := NewForecastTool(resolver, router)

	out, err := tool.Execute(context.Background(), `{"location":"Paris"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "21.0°C") || !strings.Contains(out, "clear sky") {
		t.Fatalf("output = %q", out)
	}
	if geo.calls != 1 {
		t.Fatalf("geocoder calls = %d, want 1", geo.calls)
	}
}

func TestForecastToolUnresolvedLocation(t *testing.T) {
	geo := &stubGeocoder{err: location.ErrNoMatch}
	router, hits := newTestRouter(t, http.NotFound)
	resolver := location.NewResolver(geo, nil, "us")
	tool := NewForecastTool(resolver, router)

	out, err := tool.Execute(context.Background(), `{"location":"Atlantis"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Atlantis") {
		t.Fatalf("output %q does not explain the unresolved location", out)
	}
	if *hits != 0 {
		t.Fatalf("unresolved location reached the network %d times", *hits)
	}
}

func TestHistoryToolCoordinates(t *testing.T) {
	geo := &stubGeocoder{}
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/archive" {
			t.Errorf("unexpected path %s for history", r.URL.Path)
		}
		fmt.Fprint(w, `{"daily":{"time":["2026-08-27"],"temperature_2m_max":[30.0],"temperature_2m_min":[19.5],"precipitation_sum":[0.0]}}`)
	})
	resolver := location.NewResolver(geo, nil, "us")
	tool := NewHistoryTool(resolver, router)

	out, err := tool.Execute(context.Background(), `{"location":"40.7 -74.0"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "2026-08-27") {
		t.Fatalf("output = %q", out)
	}
	if geo.calls != 0 {
		t.Fatalf("geocoder called %d times for coordinates", geo.calls)
	}
}
