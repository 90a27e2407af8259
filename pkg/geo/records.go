// Package geo defines the canonical location entities served by the search
// engine and the normalization of compact dataset records into them.
package geo

// LocationType classifies a location for ranking and display purposes.
type LocationType string

const (
	TypeCountry  LocationType = "country"
	TypeCapital  LocationType = "capital"
	TypeCity     LocationType = "city"
	TypeTown     LocationType = "town"
	TypeVillage  LocationType = "village"
	TypeLandmark LocationType = "landmark"
)

// Location is the canonical entity held by the index store. IDs are assigned
// once at normalization time and stay stable across reloads.
type Location struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	NameAlt        string       `json:"nameAlt,omitempty"`
	NameBg         string       `json:"nameBg,omitempty"`
	NameIt         string       `json:"nameIt,omitempty"`
	AlternateNames []string     `json:"alternateNames,omitempty"`
	Type           LocationType `json:"type"`
	Country        string       `json:"country,omitempty"`
	CountryCode    string       `json:"countryCode,omitempty"`
	Lat            float64      `json:"lat"`
	Lng            float64      `json:"lng"`
	Population     int          `json:"population,omitempty"`
	Zoom           int          `json:"zoom"`
}

// NameVariants returns every non-empty name field of the location, primary
// name first. Each variant is indexed independently.
func (l *Location) NameVariants() []string {
	variants := make([]string, 0, 4+len(l.AlternateNames))
	variants = append(variants, l.Name)
	if l.NameAlt != "" {
		variants = append(variants, l.NameAlt)
	}
	if l.NameBg != "" {
		variants = append(variants, l.NameBg)
	}
	if l.NameIt != "" {
		variants = append(variants, l.NameIt)
	}
	for _, alt := range l.AlternateNames {
		if alt != "" {
			variants = append(variants, alt)
		}
	}
	return variants
}

// SearchResult pairs a location with its query-time score and the name field
// that produced the match. Derived per query, never stored.
type SearchResult struct {
	Location
	Score        float64 `json:"score"`
	MatchedField string  `json:"matchedField"`
}

// CompactRecord is the wire shape of city/detail dataset entries. Field keys
// are shortened to keep the per-country JSON payloads small.
type CompactRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"n"`
	ASCII      string   `json:"a,omitempty"`
	Country    string   `json:"c,omitempty"`
	Population int      `json:"p"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Alt        []string `json:"alt,omitempty"`
}

// BoundingBox is [minLat, minLng, maxLat, maxLng] in degrees.
type BoundingBox [4]float64

// Contains reports whether the point lies within the box, bounds inclusive.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b[0] && lat <= b[2] && lng >= b[1] && lng <= b[3]
}
