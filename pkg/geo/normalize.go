package geo

// IDPrefix namespaces normalized record ids so they cannot collide with ids
// from other data sources sharing the same raw-id space.
const IDPrefix = "geo:"

// Population thresholds for type classification.
const (
	cityMinPopulation = 10000
	townMinPopulation = 1000
)

// TypeForPopulation classifies a settlement purely by population.
func TypeForPopulation(p int) LocationType {
	switch {
	case p >= cityMinPopulation:
		return TypeCity
	case p >= townMinPopulation:
		return TypeTown
	default:
		return TypeVillage
	}
}

// ZoomForPopulation picks the suggested display zoom for a settlement.
func ZoomForPopulation(p int) int {
	switch {
	case p > 100000:
		return 10
	case p > 10000:
		return 12
	case p > 1000:
		return 14
	default:
		return 15
	}
}

// Normalize converts a compact dataset record into a canonical Location.
// Pure: no I/O, deterministic for the same input.
func Normalize(r CompactRecord) Location {
	loc := Location{
		ID:             IDPrefix + r.ID,
		Name:           r.Name,
		AlternateNames: r.Alt,
		Type:           TypeForPopulation(r.Population),
		CountryCode:    r.Country,
		Lat:            r.Lat,
		Lng:            r.Lng,
		Population:     r.Population,
		Zoom:           ZoomForPopulation(r.Population),
	}
	if r.ASCII != "" && r.ASCII != r.Name {
		loc.NameAlt = r.ASCII
	}
	return loc
}

// NormalizeAll maps Normalize over a dataset batch.
func NormalizeAll(records []CompactRecord) []Location {
	locs := make([]Location, len(records))
	for i, r := range records {
		locs[i] = Normalize(r)
	}
	return locs
}
