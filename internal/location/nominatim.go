package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimClient geocodes place names through the OpenStreetMap Nominatim
// API. It implements the Geocoder interface.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Geocoder = (*NominatimClient)(nil)

// NewNominatimClient builds a geocoder. baseURL may be empty to use the
// public endpoint. Nominatim requires an identifying User-Agent.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	return &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Geocode resolves a place name to coordinates and a country code. An empty
// result set maps to ErrNoMatch.
func (c *NominatimClient) Geocode(ctx context.Context, name string) (GeoResult, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return GeoResult{}, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return GeoResult{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return GeoResult{}, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []struct {
		Lat     string `json:"lat"`
		Lon     string `json:"lon"`
		Address struct {
			CountryCode string `json:"country_code"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return GeoResult{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		return GeoResult{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return GeoResult{}, fmt.Errorf("geocoding returned invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return GeoResult{}, fmt.Errorf("geocoding returned invalid longitude %q: %w", results[0].Lon, err)
	}
	return GeoResult{Lat: lat, Lon: lon, CountryCode: results[0].Address.CountryCode}, nil
}
