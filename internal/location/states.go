package location

import "strings"

type stateEntry struct {
	code string
	name string
	lat  float64
	lon  float64
}

// stateTable holds centroid coordinates for every US state plus DC. Known
// places resolve locally so common queries never hit the geocoder.
var stateTable = []stateEntry{
	{"AL", "alabama", 32.8067, -86.7911},
	{"AK", "alaska", 61.3707, -152.4044},
	{"AZ", "arizona", 33.7298, -111.4312},
	{"AR", "arkansas", 34.9697, -92.3731},
	{"CA", "california", 36.7783, -119.4179},
	{"CO", "colorado", 39.5501, -105.7821},
	{"CT", "connecticut", 41.6032, -73.0877},
	{"DE", "delaware", 38.9108, -75.5277},
	{"FL", "florida", 27.9944, -81.7603},
	{"GA", "georgia", 33.0406, -83.6431},
	{"HI", "hawaii", 21.0943, -157.4983},
	{"ID", "idaho", 44.2405, -114.4788},
	{"IL", "illinois", 40.3495, -88.9861},
	{"IN", "indiana", 39.8494, -86.2583},
	{"IA", "iowa", 42.0115, -93.2105},
	{"KS", "kansas", 38.5266, -96.7265},
	{"KY", "kentucky", 37.6681, -84.6701},
	{"LA", "louisiana", 31.1695, -91.8678},
	{"ME", "maine", 44.6939, -69.3819},
	{"MD", "maryland", 39.0639, -76.8021},
	{"MA", "massachusetts", 42.2302, -71.5301},
	{"MI", "michigan", 43.3266, -84.5361},
	{"MN", "minnesota", 45.6945, -93.9002},
	{"MS", "mississippi", 32.7416, -89.6787},
	{"MO", "missouri", 38.4561, -92.2884},
	{"MT", "montana", 46.9219, -110.4544},
	{"NE", "nebraska", 41.1254, -98.2681},
	{"NV", "nevada", 38.3135, -117.0554},
	{"NH", "new hampshire", 43.4525, -71.5639},
	{"NJ", "new jersey", 40.2989, -74.5210},
	{"NM", "new mexico", 34.8405, -106.2485},
	{"NY", "new york", 40.7128, -74.0060},
	{"NC", "north carolina", 35.6301, -79.8064},
	{"ND", "north dakota", 47.5289, -99.7840},
	{"OH", "ohio", 40.3888, -82.7649},
	{"OK", "oklahoma", 35.5653, -96.9289},
	{"OR", "oregon", 44.5720, -122.0709},
	{"PA", "pennsylvania", 40.5908, -77.2098},
	{"RI", "rhode island", 41.6809, -71.5118},
	{"SC", "south carolina", 33.8569, -80.9450},
	{"SD", "south dakota", 44.2998, -99.4388},
	{"TN", "tennessee", 35.7478, -86.6923},
	{"TX", "texas", 31.0545, -97.5635},
	{"UT", "utah", 40.1500, -111.8624},
	{"VT", "vermont", 44.0459, -72.7107},
	{"VA", "virginia", 37.7693, -78.1700},
	{"WA", "washington", 47.4009, -121.4905},
	{"WV", "west virginia", 38.4912, -80.9546},
	{"WI", "wisconsin", 44.2685, -89.6165},
	{"WY", "wyoming", 42.7559, -107.3025},
	{"DC", "district of columbia", 38.8974, -77.0268},
}

var (
	statesByName = make(map[string]stateEntry, len(stateTable))
	statesByCode = make(map[string]stateEntry, len(stateTable))
)

func init() {
	for _, s := range stateTable {
		statesByName[s.name] = s
		statesByName[strings.ReplaceAll(s.name, " ", "")] = s
		statesByCode[s.code] = s
	}
}

// StateCode maps a US state name or two-letter code to its canonical code.
func StateCode(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if s, ok := statesByCode[strings.ToUpper(trimmed)]; ok {
		return s.code, true
	}
	if s, ok := statesByName[strings.ToLower(trimmed)]; ok {
		return s.code, true
	}
	return "", false
}

// lookupPlace returns coordinates for a known US place name or state code.
func lookupPlace(name string) (lat, lon float64, ok bool) {
	trimmed := strings.TrimSpace(name)
	if s, found := statesByName[strings.ToLower(trimmed)]; found {
		return s.lat, s.lon, true
	}
	if s, found := statesByCode[strings.ToUpper(trimmed)]; found {
		return s.lat, s.lon, true
	}
	return 0, 0, false
}
