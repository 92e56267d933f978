// Package registry holds the static mapping from human region and
// parameter names to geographic bounding boxes and measurement columns.
// It is pure lookup; nothing here touches storage.
package registry

import (
	"sort"
	"strings"
)

// Bounds is a rectangular lat/lon bounding box. LonMin > LonMax expresses
// a range crossing the antimeridian and must become an OR-predicate, not
// a BETWEEN.
type Bounds struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Wraps reports whether the longitude range crosses the ±180° meridian
func (b Bounds) Wraps() bool {
	return b.LonMin > b.LonMax
}

// regions maps canonical region keys to bounding boxes
var regions = map[string]Bounds{
	"bay of bengal":     {LatMin: 5, LatMax: 22, LonMin: 80, LonMax: 95},
	"arabian sea":       {LatMin: 8, LatMax: 25, LonMin: 50, LonMax: 80},
	"north pacific":     {LatMin: 0, LatMax: 60, LonMin: 120, LonMax: 180},
	"north atlantic":    {LatMin: 30, LatMax: 70, LonMin: -80, LonMax: 20},
	"southern ocean":    {LatMin: -70, LatMax: -40, LonMin: -180, LonMax: 180},
	"mediterranean sea": {LatMin: 30, LatMax: 46, LonMin: -6, LonMax: 36},
	"indian ocean":      {LatMin: -40, LatMax: 25, LonMin: 40, LonMax: 120},
}

// DefaultComparisonRegions are used when a regional comparison names no
// regions at all; a comparison never runs with zero groups.
var DefaultComparisonRegions = []string{"bay of bengal", "arabian sea"}

// parameterSynonyms maps user-facing parameter names to measurement columns
var parameterSynonyms = map[string]string{
	"temp":             "temp",
	"temperature":      "temp",
	"sal":              "psal",
	"salinity":         "psal",
	"psal":             "psal",
	"pres":             "pressure",
	"pressure":         "pressure",
	"o2":               "doxy",
	"oxygen":           "doxy",
	"dissolved_oxygen": "doxy",
	"doxy":             "doxy",
	"chl":              "chla",
	"chla":             "chla",
	"chlorophyll":      "chla",
	"no3":              "nitrate",
	"nitrate":          "nitrate",
	"ph":               "ph",
	"ph_total":         "ph",
	"bbp700":           "bbp700",
	"backscatter":      "bbp700",
}

// measurementColumns is the closed set of identifiers the SQL builder may
// interpolate. Values bound at execution time never pass through here.
var measurementColumns = map[string]bool{
	"temp":     true,
	"psal":     true,
	"pressure": true,
	"doxy":     true,
	"chla":     true,
	"nitrate":  true,
	"bbp700":   true,
	"ph":       true,
}

// ResolveRegion looks up bounding boxes by region name. Matching is
// case-insensitive and tolerates partial names ("bengal", "the Arabian Sea");
// when several canonical keys are contained in the query, the longest wins.
// An unknown region returns ok=false and callers apply no spatial filter.
func ResolveRegion(name string) (Bounds, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Bounds{}, false
	}

	if bounds, ok := regions[key]; ok {
		return bounds, true
	}

	// Substring containment in either direction, most specific match wins
	bestLen := 0
	var best Bounds
	for canonical, bounds := range regions {
		if strings.Contains(key, canonical) || containsSignificantWord(key, canonical) {
			if len(canonical) > bestLen {
				bestLen = len(canonical)
				best = bounds
			}
		}
	}

	if bestLen > 0 {
		return best, true
	}

	return Bounds{}, false
}

// containsSignificantWord matches a query against the distinctive word of a
// canonical key ("bengal", "arabian", "pacific"), skipping generic terms.
func containsSignificantWord(query, canonical string) bool {
	for _, word := range strings.Fields(canonical) {
		switch word {
		case "of", "sea", "ocean", "north", "bay":
			continue
		}
		if strings.Contains(query, word) {
			return true
		}
	}
	return false
}

// RegionNames returns the canonical region keys in stable order
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeParameter maps a parameter name to its measurement column.
// Unknown names pass through lowercased: the store may carry a column the
// registry does not know about, and per-parameter error handling catches
// the ones it does not.
func NormalizeParameter(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if column, ok := parameterSynonyms[key]; ok {
		return column
	}
	return key
}

// IsKnownColumn reports whether column belongs to the closed identifier set
func IsKnownColumn(column string) bool {
	return measurementColumns[column]
}

// KnownColumns returns the measurement columns in stable order
func KnownColumns() []string {
	columns := make([]string, 0, len(measurementColumns))
	for column := range measurementColumns {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
