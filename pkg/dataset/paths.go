package dataset

import "strings"

// Fixed dataset paths, relative to the fetcher root.
const (
	// BasePath holds countries, capitals and landmarks. Required at startup.
	BasePath = "base.json"
	// MajorCitiesPath holds cities above the curated population threshold.
	MajorCitiesPath = "cities-major.json"
	// CountryBoundsPath maps country codes to bounding boxes.
	CountryBoundsPath = "country-bounds.json"
)

// CountryPath returns the detail dataset path for a country code.
func CountryPath(code string) string {
	return "countries/" + strings.ToLower(code) + ".json"
}
