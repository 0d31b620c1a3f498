// Package location turns free text or coordinate pairs into canonical
// locations with a region classification that drives provider routing.
package location

// Region classifies a resolved location for provider routing.
type Region string

const (
	RegionDomestic      Region = "domestic"
	RegionInternational Region = "international"
	RegionUnresolved    Region = "unresolved"
)

// Location is the canonical result of resolution. It is never mutated after
// creation; callers re-resolve rather than patch.
type Location struct {
	// Query is the raw input text the location was resolved from.
	Query  string
	Lat    float64
	Lon    float64
	Region Region
	// Note carries a human-readable explanation when Region is unresolved,
	// so downstream tools can report "location not found" instead of failing.
	Note string
}
