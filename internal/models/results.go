package models

// Month classification statuses for anomaly detection
const (
	StatusAnomaly = "ANOMALY"
	StatusNormal  = "NORMAL"
)

// Comparison kinds
const (
	ComparisonRegional   = "regional"
	ComparisonTemporal   = "temporal"
	ComparisonParametric = "parametric"
)

// AppliedFilters echoes the filters a record was computed under
type AppliedFilters struct {
	Region     string    `json:"region,omitempty"`
	DateRange  []string  `json:"date_range,omitempty"`
	DepthRange []float64 `json:"depth_range,omitempty"`
}

// AggregateRecord is one aggregate-statistics result for one parameter.
// Value is nil and Error is populated for no-data and failed parameters;
// the record is still emitted so output cardinality matches the request.
type AggregateRecord struct {
	Parameter string         `json:"parameter"`
	Value     *float64       `json:"value"`
	Count     int            `json:"count"`
	Operation string         `json:"operation"`
	Error     string         `json:"error,omitempty"`
	Filters   AppliedFilters `json:"filters"`
}

// MonthlyTrend is one month of an anomaly analysis window
type MonthlyTrend struct {
	Month  string  `json:"month"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// AnomalyRecord is the per-parameter output of anomaly and trend detection
type AnomalyRecord struct {
	Parameter        string         `json:"parameter"`
	AnomalyRate      float64        `json:"anomaly_rate"`
	TotalMonths      int            `json:"total_months"`
	PeriodAvg        *float64       `json:"period_avg"`
	PeriodMin        *float64       `json:"period_min"`
	PeriodMax        *float64       `json:"period_max"`
	VariabilityRatio float64        `json:"variability_ratio"`
	AnomalyCount     int            `json:"anomaly_count"`
	MonthlyTrends    []MonthlyTrend `json:"monthly_trends,omitempty"`
	AnalysisSummary  string         `json:"analysis_summary,omitempty"`
	Error            string         `json:"error,omitempty"`
	Filters          AppliedFilters `json:"filters"`
}

// ProfileRow is one depth sample of a profile retrieval.
// Channel fields are nil when the channel was not requested or not sensed.
type ProfileRow struct {
	Date        string   `json:"date" db:"date"`
	Latitude    float64  `json:"latitude" db:"latitude"`
	Longitude   float64  `json:"longitude" db:"longitude"`
	Pressure    float64  `json:"pressure" db:"pressure"`
	Temperature *float64 `json:"temperature,omitempty" db:"temp"`
	Salinity    *float64 `json:"salinity,omitempty" db:"psal"`
	Oxygen      *float64 `json:"oxygen,omitempty" db:"doxy"`
	Chlorophyll *float64 `json:"chlorophyll,omitempty" db:"chla"`
	Nitrate     *float64 `json:"nitrate,omitempty" db:"nitrate"`
	Backscatter *float64 `json:"backscatter,omitempty" db:"bbp700"`
	PH          *float64 `json:"ph,omitempty" db:"ph"`
}

// ComparisonRecord tags an aggregate record with its comparison group
type ComparisonRecord struct {
	AggregateRecord
	ComparisonGroup string `json:"comparison_group"`
	ComparisonType  string `json:"comparison_type"`
}

// ParameterCoverage reports sample counts for one parameter in a data summary
type ParameterCoverage struct {
	Parameter string  `json:"parameter"`
	Count     int     `json:"count"`
	Coverage  float64 `json:"coverage"`
}

// AvailabilitySummary describes what data exists under the applied filters
type AvailabilitySummary struct {
	TotalProfiles       int                 `json:"total_profiles"`
	UniqueDates         int                 `json:"unique_dates"`
	DateRange           []string            `json:"date_range"`
	LatRange            []float64           `json:"lat_range"`
	LonRange            []float64           `json:"lon_range"`
	DepthRange          []float64           `json:"depth_range"`
	AvailableParameters []ParameterCoverage `json:"available_parameters"`
}

// BatchSummary aggregates outcome counts across a batch of query results
type BatchSummary struct {
	TotalFunctionsCalled int      `json:"total_functions_called"`
	SuccessfulQueries    int      `json:"successful_queries"`
	FailedQueries        int      `json:"failed_queries"`
	DataPointsAnalyzed   int      `json:"data_points_analyzed"`
	ParametersAnalyzed   []string `json:"parameters_analyzed"`
	AnomaliesDetected    int      `json:"anomalies_detected"`
	TotalMonthsAnalyzed  int      `json:"total_months_analyzed"`
	AnomalyRate          float64  `json:"anomaly_rate"`
}

// QueryResult is the tagged-variant response for one function call.
// Exactly one of the record slices is populated, matching Function.
type QueryResult struct {
	Function    string               `json:"function"`
	Aggregates  []AggregateRecord    `json:"aggregates,omitempty"`
	Anomalies   []AnomalyRecord      `json:"anomalies,omitempty"`
	Profiles    []ProfileRow         `json:"profiles,omitempty"`
	Comparisons []ComparisonRecord   `json:"comparisons,omitempty"`
	Summary     *AvailabilitySummary `json:"summary,omitempty"`
}
