package location

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

// ErrNoMatch is returned by a Geocoder when the query matches nothing.
var ErrNoMatch = errors.New("no geocoding match")

// GeoResult is the outcome of a geocoding lookup.
type GeoResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	CountryCode string  `json:"country_code"`
}

// Geocoder is the external lookup the resolver delegates to when a place
// name is not known locally.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (GeoResult, error)
}

// Resolver turns free text or coordinate pairs into Locations.
type Resolver struct {
	geocoder    Geocoder
	cache       *GeoCache
	homeCountry string
}

// NewResolver builds a resolver. cache may be nil; homeCountry is the
// ISO 3166-1 alpha-2 code whose locations classify as domestic.
func NewResolver(geocoder Geocoder, cache *GeoCache, homeCountry string) *Resolver {
	if homeCountry == "" {
		homeCountry = "us"
	}
	return &Resolver{
		geocoder:    geocoder,
		cache:       cache,
		homeCountry: strings.ToLower(homeCountry),
	}
}

// Resolve never returns an error: input that cannot be resolved yields a
// Location with RegionUnresolved and an explanatory Note.
func (r *Resolver) Resolve(ctx context.Context, text string) Location {
	query := strings.TrimSpace(text)
	if query == "" {
		return unresolved(query, "No location was provided.")
	}

	// Explicit coordinates take priority and never trigger a geocoding call.
	if lat, lon, ok := parseCoordinates(query); ok {
		return Location{Query: query, Lat: lat, Lon: lon, Region: RegionDomestic}
	}

	if lat, lon, ok := lookupPlace(query); ok {
		return Location{Query: query, Lat: lat, Lon: lon, Region: RegionDomestic}
	}

	res, err := r.geocode(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return unresolved(query, fmt.Sprintf("Could not find a location matching %q.", query))
		}
		logx.Warn().Err(err).Str("query", query).Msg("geocoding lookup failed")
		return unresolved(query, fmt.Sprintf("Location lookup for %q failed: %v.", query, err))
	}

	region := RegionInternational
	if strings.ToLower(res.CountryCode) == r.homeCountry {
		region = RegionDomestic
	}
	return Location{Query: query, Lat: res.Lat, Lon: res.Lon, Region: region}
}

func (r *Resolver) geocode(ctx context.Context, query string) (GeoResult, error) {
	key := normalizeQuery(query)
	if r.cache != nil {
		if res, ok := r.cache.Get(ctx, key); ok {
			return res, nil
		}
	}
	res, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		return GeoResult{}, err
	}
	if r.cache != nil {
		r.cache.Set(ctx, key, res)
	}
	return res, nil
}

// parseCoordinates accepts "lat lon" or "lat,lon" pairs within valid ranges.
func parseCoordinates(s string) (lat, lon float64, ok bool) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(fields[0], 64)
	lon, errLon := strconv.ParseFloat(fields[1], 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func unresolved(query, note string) Location {
	return Location{Query: query, Region: RegionUnresolved, Note: note}
}
