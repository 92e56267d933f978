package models

// Function names the template engine dispatches on. These match the
// function-calling declarations exposed to the language-model front-end.
const (
	FuncAggregateStatistics = "query_aggregate_statistics"
	FuncDetectAnomalies     = "detect_anomalies_and_trends"
	FuncProfileData         = "query_profile_data"
	FuncCompareData         = "compare_oceanographic_data"
	FuncDataSummary         = "get_data_summary"
)

// FunctionCall is the unit the NLU front-end hands to the engine:
// a function name plus an argument object.
type FunctionCall struct {
	Function  string       `json:"function"`
	Arguments QueryRequest `json:"arguments"`
}

// QueryRequest carries the structured parameters for all query shapes.
// Constructed per request, consumed once.
type QueryRequest struct {
	Region               string     `json:"region,omitempty"`
	Regions              []string   `json:"regions,omitempty"`
	LatBounds            []float64  `json:"lat_bounds,omitempty"`
	LonBounds            []float64  `json:"lon_bounds,omitempty"`
	DateRange            []string   `json:"date_range,omitempty"`
	DepthRange           []float64  `json:"depth_range,omitempty"`
	Parameters           []string   `json:"parameters,omitempty"`
	Operation            string     `json:"operation,omitempty"`
	StatisticalThreshold float64    `json:"statistical_threshold,omitempty"`
	MaxProfiles          int        `json:"max_profiles,omitempty"`
	ProfileType          string     `json:"profile_type,omitempty"`
	ComparisonType       string     `json:"comparison_type,omitempty"`
	TimePeriods          [][]string `json:"time_periods,omitempty"`
}

// AppliedFilters echoes the filter portion of the request onto result records
func (r *QueryRequest) AppliedFilters() AppliedFilters {
	return AppliedFilters{
		Region:     r.Region,
		DateRange:  r.DateRange,
		DepthRange: r.DepthRange,
	}
}
