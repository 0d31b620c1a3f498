package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultOpenMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultOpenMeteoArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
)

// OpenMeteoClient is the global fallback weather service. It serves forecasts
// for locations outside NWS coverage and historical series for everywhere,
// since the domestic service exposes no history endpoint.
type OpenMeteoClient struct {
	forecastURL string
	archiveURL  string
	httpClient  *http.Client
	now         func() time.Time
}

func NewOpenMeteoClient(forecastURL, archiveURL string, timeout time.Duration) *OpenMeteoClient {
	if forecastURL == "" {
		forecastURL = defaultOpenMeteoForecastURL
	}
	if archiveURL == "" {
		archiveURL = defaultOpenMeteoArchiveURL
	}
	return &OpenMeteoClient{
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		httpClient:  &http.Client{Timeout: timeout},
		now:         time.Now,
	}
}

// Current fetches current conditions for coordinates.
func (c *OpenMeteoClient) Current(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current_weather", "true")

	var data struct {
		CurrentWeather *struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"?"+params.Encode(), &data); err != nil {
		return "", err
	}
	if data.CurrentWeather == nil {
		return "", fmt.Errorf("forecast response carried no current weather block")
	}
	cw := data.CurrentWeather
	return fmt.Sprintf(
		"Current Weather:\nTemperature: %.1f°C\nWind: %.1f km/h\nConditions: %s",
		cw.Temperature, cw.WindSpeed, describeWeatherCode(cw.WeatherCode),
	), nil
}

// History fetches a daily series for the past week from the archive API.
func (c *OpenMeteoClient) History(ctx context.Context, lat, lon float64) (string, error) {
	end := c.now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -6)

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	params.Set("timezone", "UTC")

	var data struct {
		Daily struct {
			Time             []string  `json:"time"`
			TemperatureMax   []float64 `json:"temperature_2m_max"`
			TemperatureMin   []float64 `json:"temperature_2m_min"`
			PrecipitationSum []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	if err := c.getJSON(ctx, c.archiveURL+"?"+params.Encode(), &data); err != nil {
		return "", err
	}
	if len(data.Daily.Time) == 0 {
		return "", fmt.Errorf("archive response carried no daily series")
	}

	lines := make([]string, 0, len(data.Daily.Time)+1)
	lines = append(lines, fmt.Sprintf("Daily history for (%.4f, %.4f):", lat, lon))
	for i, day := range data.Daily.Time {
		line := day + ":"
		if i < len(data.Daily.TemperatureMax) && i < len(data.Daily.TemperatureMin) {
			line += fmt.Sprintf(" high %.1f°C, low %.1f°C", data.Daily.TemperatureMax[i], data.Daily.TemperatureMin[i])
		}
		if i < len(data.Daily.PrecipitationSum) {
			line += fmt.Sprintf(", precipitation %.1f mm", data.Daily.PrecipitationSum[i])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (c *OpenMeteoClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create Open-Meteo request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Open-Meteo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Open-Meteo API returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Open-Meteo response: %w", err)
	}
	return nil
}

// describeWeatherCode translates WMO weather interpretation codes into text
// so tool results stay readable without a lookup table on the caller's side.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
