package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultNWSBaseURL = "https://api.weather.gov"

// ErrNotCovered indicates the NWS has no data for the requested coordinates,
// which happens for points outside its coverage area.
var ErrNotCovered = errors.New("location not covered by NWS")

// NWSClient talks to the US National Weather Service API, the authoritative
// source for domestic alerts and forecasts.
type NWSClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNWSClient(baseURL, userAgent string, timeout time.Duration) *NWSClient {
	if baseURL == "" {
		baseURL = defaultNWSBaseURL
	}
	return &NWSClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Alerts fetches active alerts for a two-letter US state code and formats
// them as readable text.
func (c *NWSClient) Alerts(ctx context.Context, state string) (string, error) {
	var data struct {
		Features []struct {
			Properties struct {
				Event       string `json:"event"`
				AreaDesc    string `json:"areaDesc"`
				Severity    string `json:"severity"`
				Description string `json:"description"`
				Instruction string `json:"instruction"`
			} `json:"properties"`
		} `json:"features"`
	}
	url := fmt.Sprintf("%s/alerts/active/area/%s", c.baseURL, strings.ToUpper(state))
	if err := c.getJSON(ctx, url, &data); err != nil {
		return "", err
	}
	if len(data.Features) == 0 {
		return "No active alerts for this state.", nil
	}

	alerts := make([]string, 0, len(data.Features))
	for _, feature := range data.Features {
		p := feature.Properties
		alerts = append(alerts, fmt.Sprintf(
			"Event: %s\nArea: %s\nSeverity: %s\nDescription: %s\nInstructions: %s",
			orUnknown(p.Event), orUnknown(p.AreaDesc), orUnknown(p.Severity),
			orDefault(p.Description, "No description available"),
			orDefault(p.Instruction, "No specific instructions provided"),
		))
	}
	return strings.Join(alerts, "\n---\n"), nil
}

// Forecast fetches the point forecast for coordinates via the two-hop
// points endpoint and formats the next five periods.
func (c *NWSClient) Forecast(ctx context.Context, lat, lon float64) (string, error) {
	var points struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)
	if err := c.getJSON(ctx, pointsURL, &points); err != nil {
		return "", err
	}
	if points.Properties.Forecast == "" {
		return "", ErrNotCovered
	}

	var forecast struct {
		Properties struct {
			Periods []struct {
				Name             string `json:"name"`
				Temperature      int    `json:"temperature"`
				TemperatureUnit  string `json:"temperatureUnit"`
				WindSpeed        string `json:"windSpeed"`
				WindDirection    string `json:"windDirection"`
				DetailedForecast string `json:"detailedForecast"`
			} `json:"periods"`
		} `json:"properties"`
	}
	if err := c.getJSON(ctx, points.Properties.Forecast, &forecast); err != nil {
		return "", err
	}

	periods := forecast.Properties.Periods
	if len(periods) > 5 {
		periods = periods[:5]
	}
	formatted := make([]string, 0, len(periods))
	for _, p := range periods {
		formatted = append(formatted, fmt.Sprintf(
			"%s:\nTemperature: %d°%s\nWind: %s %s\nForecast: %s",
			p.Name, p.Temperature, p.TemperatureUnit, p.WindSpeed, p.WindDirection, p.DetailedForecast,
		))
	}
	return strings.Join(formatted, "\n---\n"), nil
}

func (c *NWSClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create NWS request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("NWS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotCovered
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("NWS API returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode NWS response: %w", err)
	}
	return nil
}

func orUnknown(s string) string {
	return orDefault(s, "Unknown")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
