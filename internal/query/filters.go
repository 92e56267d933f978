package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/internal/registry"
)

// Filter is a WHERE-clause fragment with its bound values. Clauses use
// ?-style placeholders and are rebound to the backend dialect at execution
// time; data values are never interpolated into the clause text.
type Filter struct {
	Clause string
	Args   []interface{}
}

// Empty reports whether the filter contributes no predicate
func (f Filter) Empty() bool {
	return f.Clause == ""
}

const dateLayout = "2006-01-02"

// spatialFilter derives latitude/longitude predicates on profiles.
// A resolvable region name takes precedence over explicit bounds. A
// longitude range with min > max crosses the antimeridian and becomes an
// OR-predicate instead of a BETWEEN.
func spatialFilter(region string, latBounds, lonBounds []float64) Filter {
	if region != "" {
		if bounds, ok := registry.ResolveRegion(region); ok {
			latBounds = []float64{bounds.LatMin, bounds.LatMax}
			lonBounds = []float64{bounds.LonMin, bounds.LonMax}
		}
	}

	var conditions []string
	var args []interface{}

	if len(latBounds) == 2 {
		conditions = append(conditions, "p.latitude BETWEEN ? AND ?")
		args = append(args, latBounds[0], latBounds[1])
	}

	if len(lonBounds) == 2 {
		if lonBounds[0] > lonBounds[1] {
			conditions = append(conditions, "(p.longitude >= ? OR p.longitude <= ?)")
		} else {
			conditions = append(conditions, "p.longitude BETWEEN ? AND ?")
		}
		args = append(args, lonBounds[0], lonBounds[1])
	}

	return Filter{Clause: strings.Join(conditions, " AND "), Args: args}
}

// temporalFilter derives the profile-date predicate. A single date expands
// to a one-day range; two dates are used verbatim as an inclusive range.
// Any other non-zero length is a caller mistake.
func temporalFilter(dateRange []string) (Filter, error) {
	if len(dateRange) == 0 {
		return Filter{}, nil
	}

	start, end, err := parseDateRange(dateRange)
	if err != nil {
		return Filter{}, err
	}

	return Filter{
		Clause: "p.profile_date BETWEEN ? AND ?",
		Args:   []interface{}{start, end},
	}, nil
}

// parseDateRange validates and normalizes a 1- or 2-element date list
func parseDateRange(dateRange []string) (string, string, error) {
	switch len(dateRange) {
	case 2:
		for _, d := range dateRange {
			if _, err := time.Parse(dateLayout, d); err != nil {
				return "", "", &models.InvalidRangeError{
					Field:  "date_range",
					Reason: fmt.Sprintf("unparseable date %q, expected YYYY-MM-DD", d),
				}
			}
		}
		return dateRange[0], dateRange[1], nil

	case 1:
		date, err := time.Parse(dateLayout, dateRange[0])
		if err != nil {
			return "", "", &models.InvalidRangeError{
				Field:  "date_range",
				Reason: fmt.Sprintf("unparseable date %q, expected YYYY-MM-DD", dateRange[0]),
			}
		}
		return dateRange[0], date.AddDate(0, 0, 1).Format(dateLayout), nil

	default:
		return "", "", &models.InvalidRangeError{
			Field:  "date_range",
			Reason: fmt.Sprintf("expected 1 or 2 dates, got %d", len(dateRange)),
		}
	}
}

// depthFilter derives the pressure predicate on measurements. A single
// value is a target depth with a symmetric tolerance window of
// max(10% of target, 50 dbar); two values are an inclusive band.
func depthFilter(depthRange []float64) Filter {
	switch len(depthRange) {
	case 1:
		depth := depthRange[0]
		tolerance := depth * 0.1
		if tolerance < 50 {
			tolerance = 50
		}
		return Filter{
			Clause: "ABS(m.pressure - ?) <= ?",
			Args:   []interface{}{depth, tolerance},
		}

	case 2:
		return Filter{
			Clause: "m.pressure BETWEEN ? AND ?",
			Args:   []interface{}{depthRange[0], depthRange[1]},
		}

	default:
		return Filter{}
	}
}

// combineFilters ANDs non-empty fragments, concatenating bound values in
// the order given. Callers pass spatial, temporal, depth in that order so
// args align positionally with placeholders.
func combineFilters(filters ...Filter) Filter {
	var clauses []string
	var args []interface{}

	for _, f := range filters {
		if f.Empty() {
			continue
		}
		clauses = append(clauses, f.Clause)
		args = append(args, f.Args...)
	}

	if len(clauses) == 0 {
		return Filter{Clause: "1=1"}
	}

	return Filter{Clause: strings.Join(clauses, " AND "), Args: args}
}

// buildFilters assembles the shared WHERE fragment for a request.
// withDepth is false for shapes that filter on profiles only.
func buildFilters(req *models.QueryRequest, withDepth bool) (Filter, error) {
	spatial := spatialFilter(req.Region, req.LatBounds, req.LonBounds)

	temporal, err := temporalFilter(req.DateRange)
	if err != nil {
		return Filter{}, err
	}

	if !withDepth {
		return combineFilters(spatial, temporal), nil
	}

	return combineFilters(spatial, temporal, depthFilter(req.DepthRange)), nil
}
