// Package query implements the deterministic SQL template engine for
// oceanographic data questions. Four fixed query shapes consume a shared
// filter fragment; only their parameters vary.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/internal/registry"
	"github.com/VamP08/FloatChat/pkg/database"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// Config holds template engine defaults
type Config struct {
	MaxProfileRows   int
	AnomalyThreshold float64
	AnomalyWindow    time.Duration
}

// Shape labels for metrics and logs
const (
	shapeAggregate  = "aggregate"
	shapeAnomaly    = "anomaly"
	shapeProfile    = "profile"
	shapeComparison = "comparison"
	shapeSummary    = "summary"
)

// defaultAggregateParameters expands the "all" parameter list for
// aggregate statistics
var defaultAggregateParameters = []string{"temp", "psal", "pressure", "doxy"}

// defaultAnomalyParameters is the core channel set analyzed when an
// anomaly request names no parameters
var defaultAnomalyParameters = []string{"temp", "psal", "doxy", "chla", "nitrate", "ph"}

// Engine executes the four query shapes against the store. It holds no
// per-request state; construct one at startup and share it.
type Engine struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
	config  Config

	// now is injected so the default anomaly window is testable
	now func() time.Time
}

// NewEngine creates a template engine bound to a store
func NewEngine(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector, cfg Config) *Engine {
	if cfg.MaxProfileRows <= 0 {
		cfg.MaxProfileRows = 100
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = 2.0
	}
	if cfg.AnomalyWindow <= 0 {
		cfg.AnomalyWindow = 365 * 24 * time.Hour
	}

	return &Engine{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
		config:  cfg,
		now:     time.Now,
	}
}

// AggregateStatistics runs one aggregation per requested parameter.
// Every requested parameter yields exactly one record, in request order;
// no-data and per-parameter failures become explanatory records instead
// of aborting the batch.
func (e *Engine) AggregateStatistics(ctx context.Context, req *models.QueryRequest) ([]models.AggregateRecord, error) {
	timer := time.Now()
	defer func() {
		e.metrics.QueryDuration.WithLabelValues(shapeAggregate).Observe(time.Since(timer).Seconds())
	}()

	operation := req.Operation
	if operation == "" {
		operation = "average"
	}

	aggFn, isStd, known := resolveOperation(operation)
	if !known {
		// Permissive by contract: unknown keywords average. Flagged
		// distinctly so a strict mode can be added later.
		e.metrics.OperationFallbacks.Inc()
		e.logger.Warn(ctx, "[QUERY_OP_FALLBACK] Unrecognized operation keyword, defaulting to average", logging.Fields{
			"operation": operation,
		})
	}

	where, err := buildFilters(req, true)
	if err != nil {
		return nil, err
	}

	parameters := expandParameters(req.Parameters, defaultAggregateParameters, false)
	filters := req.AppliedFilters()

	records := make([]models.AggregateRecord, 0, len(parameters))
	for _, parameter := range parameters {
		records = append(records, e.aggregateOne(ctx, parameter, operation, aggFn, isStd, where, filters))
	}

	e.metrics.QueryRecordsTotal.WithLabelValues(shapeAggregate).Add(float64(len(records)))

	return records, nil
}

// aggregateOne executes one parameter's aggregation and shapes the record
func (e *Engine) aggregateOne(ctx context.Context, parameter, operation, aggFn string, isStd bool, where Filter, filters models.AppliedFilters) models.AggregateRecord {
	record := models.AggregateRecord{
		Parameter: parameter,
		Operation: operation,
		Filters:   filters,
	}

	column := registry.NormalizeParameter(parameter)
	if err := safeColumn(column); err != nil {
		e.metrics.RecordQueryError(shapeAggregate)
		record.Error = fmt.Sprintf("unusable parameter %q: %v", parameter, err)
		return record
	}

	var sqlText string
	var args []interface{}
	if isStd {
		sqlText, args = buildStdDevSQL(column, where)
	} else {
		sqlText, args = buildAggregateSQL(column, aggFn, where)
	}

	var row struct {
		Value *float64 `db:"value"`
		Count int      `db:"count"`
	}

	if err := e.db.GetContext(ctx, "aggregate_statistics", &row, e.db.Rebind(sqlText), args...); err != nil {
		e.metrics.RecordQueryError(shapeAggregate)
		record.Error = fmt.Sprintf("query failed for %s: %v", parameter, err)
		return record
	}

	if row.Value == nil {
		e.metrics.RecordNoDataRecord(shapeAggregate)
		record.Error = fmt.Sprintf("No data found for %s in the specified region/time range", parameter)
		return record
	}

	record.Value = row.Value
	record.Count = row.Count

	return record
}

// DetectAnomalies buckets each parameter by calendar month and classifies
// months against the window mean with a z-score threshold. The date range
// defaults to the trailing year; the parameter list defaults to the core
// channel set.
func (e *Engine) DetectAnomalies(ctx context.Context, req *models.QueryRequest) ([]models.AnomalyRecord, error) {
	timer := time.Now()
	defer func() {
		e.metrics.QueryDuration.WithLabelValues(shapeAnomaly).Observe(time.Since(timer).Seconds())
	}()

	if req.Region == "" && len(req.LatBounds) != 2 && len(req.LonBounds) != 2 {
		return nil, &models.ValidationError{
			Field:   "region",
			Message: "anomaly detection requires a region or explicit lat/lon bounds",
		}
	}

	effective := *req
	if len(effective.DateRange) == 0 {
		end := e.now()
		start := end.Add(-e.config.AnomalyWindow)
		effective.DateRange = []string{start.Format(dateLayout), end.Format(dateLayout)}
	}

	threshold := effective.StatisticalThreshold
	if threshold <= 0 {
		threshold = e.config.AnomalyThreshold
	}

	where, err := buildFilters(&effective, true)
	if err != nil {
		return nil, err
	}

	parameters := expandParameters(effective.Parameters, defaultAnomalyParameters, true)
	filters := effective.AppliedFilters()

	records := make([]models.AnomalyRecord, 0, len(parameters))
	for _, parameter := range parameters {
		records = append(records, e.analyzeOne(ctx, parameter, threshold, where, filters))
	}

	e.metrics.QueryRecordsTotal.WithLabelValues(shapeAnomaly).Add(float64(len(records)))

	return records, nil
}

// analyzeOne runs the monthly bucketing query for one parameter and
// derives the anomaly classification and trend narrative
func (e *Engine) analyzeOne(ctx context.Context, parameter string, threshold float64, where Filter, filters models.AppliedFilters) models.AnomalyRecord {
	record := models.AnomalyRecord{
		Parameter: parameter,
		Filters:   filters,
	}

	column := registry.NormalizeParameter(parameter)
	if err := safeColumn(column); err != nil {
		e.metrics.RecordQueryError(shapeAnomaly)
		record.Error = fmt.Sprintf("unusable parameter %q: %v", parameter, err)
		return record
	}

	sqlText, args := buildMonthlySQL(column, where)

	var months []monthlyStat
	if err := e.db.SelectContext(ctx, "monthly_stats", &months, e.db.Rebind(sqlText), args...); err != nil {
		e.metrics.RecordQueryError(shapeAnomaly)
		record.Error = fmt.Sprintf("query failed for %s: %v", parameter, err)
		return record
	}

	if len(months) == 0 {
		e.metrics.RecordNoDataRecord(shapeAnomaly)
		record.Error = fmt.Sprintf("Insufficient data for %s analysis in the specified region/time range", parameter)
		return record
	}

	analysis := analyzeMonths(months, threshold)

	periodAvg := analysis.PeriodAvg
	periodMin := analysis.PeriodMin
	periodMax := analysis.PeriodMax

	record.AnomalyRate = analysis.AnomalyRate
	record.TotalMonths = analysis.TotalMonths
	record.PeriodAvg = &periodAvg
	record.PeriodMin = &periodMin
	record.PeriodMax = &periodMax
	record.VariabilityRatio = analysis.VariabilityRatio
	record.AnomalyCount = analysis.AnomalyCount
	record.MonthlyTrends = analysis.Trends
	record.AnalysisSummary = analysis.Summary

	e.metrics.AnomaliesDetected.Add(float64(analysis.AnomalyCount))

	return record
}

// ProfileData retrieves raw depth samples: requested channels plus date,
// position and pressure, newest profiles first, shallow samples first
// within a profile, capped at the requested row count.
func (e *Engine) ProfileData(ctx context.Context, req *models.QueryRequest) ([]models.ProfileRow, error) {
	timer := time.Now()
	defer func() {
		e.metrics.QueryDuration.WithLabelValues(shapeProfile).Observe(time.Since(timer).Seconds())
	}()

	where, err := buildFilters(req, true)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(req.Parameters))
	seen := make(map[string]bool, len(req.Parameters))
	for _, parameter := range req.Parameters {
		column := registry.NormalizeParameter(parameter)
		if err := safeColumn(column); err != nil {
			return nil, &models.ValidationError{
				Field:   "parameters",
				Value:   parameter,
				Message: fmt.Sprintf("unusable parameter %q", parameter),
			}
		}
		if seen[column] {
			continue
		}
		seen[column] = true
		columns = append(columns, column)
	}

	limit := req.MaxProfiles
	if limit <= 0 {
		limit = e.config.MaxProfileRows
	}

	sqlText, args := buildProfileSQL(columns, where, limit)

	rows := make([]models.ProfileRow, 0, limit)
	if err := e.db.SelectContext(ctx, "profile_data", &rows, e.db.Rebind(sqlText), args...); err != nil {
		e.metrics.RecordQueryError(shapeProfile)
		return nil, fmt.Errorf("profile query failed: %w", err)
	}

	e.metrics.QueryRecordsTotal.WithLabelValues(shapeProfile).Add(float64(len(rows)))

	e.logger.Debug(ctx, "[QUERY_PROFILE] Profile rows retrieved", logging.Fields{
		"rows":         len(rows),
		"profile_type": req.ProfileType,
		"limit":        limit,
	})

	return rows, nil
}

// Compare delegates to aggregate statistics once per comparison group and
// tags each record with its group label. A regional comparison with no
// groups falls back to two default regions, never zero.
func (e *Engine) Compare(ctx context.Context, req *models.QueryRequest) ([]models.ComparisonRecord, error) {
	timer := time.Now()
	defer func() {
		e.metrics.QueryDuration.WithLabelValues(shapeComparison).Observe(time.Since(timer).Seconds())
	}()

	kind := strings.ToLower(strings.TrimSpace(req.ComparisonType))
	if kind == "" {
		kind = models.ComparisonRegional
	}

	var records []models.ComparisonRecord
	var err error

	switch kind {
	case models.ComparisonRegional:
		records, err = e.compareRegions(ctx, req)
	case models.ComparisonTemporal:
		records, err = e.comparePeriods(ctx, req)
	case models.ComparisonParametric:
		records, err = e.compareParameters(ctx, req)
	default:
		return nil, &models.UnsupportedComparisonError{Kind: req.ComparisonType}
	}

	if err != nil {
		return nil, err
	}

	e.metrics.QueryRecordsTotal.WithLabelValues(shapeComparison).Add(float64(len(records)))

	return records, nil
}

func (e *Engine) compareRegions(ctx context.Context, req *models.QueryRequest) ([]models.ComparisonRecord, error) {
	groups := req.Regions
	if len(groups) == 0 {
		if req.Region != "" {
			groups = []string{req.Region}
		} else {
			groups = registry.DefaultComparisonRegions
		}
	}

	var records []models.ComparisonRecord
	for _, region := range groups {
		groupReq := *req
		groupReq.Region = region
		groupReq.Regions = nil

		aggregates, err := e.AggregateStatistics(ctx, &groupReq)
		if err != nil {
			return nil, err
		}

		records = appendComparison(records, aggregates, titleCase(region), models.ComparisonRegional)
	}

	return records, nil
}

func (e *Engine) comparePeriods(ctx context.Context, req *models.QueryRequest) ([]models.ComparisonRecord, error) {
	var records []models.ComparisonRecord
	for i, period := range req.TimePeriods {
		groupReq := *req
		groupReq.DateRange = period
		groupReq.TimePeriods = nil

		aggregates, err := e.AggregateStatistics(ctx, &groupReq)
		if err != nil {
			return nil, err
		}

		label := fmt.Sprintf("period_%d", i+1)
		if len(period) > 0 {
			label = fmt.Sprintf("period_%d_%s_to_%s", i+1, period[0], period[len(period)-1])
		}

		records = appendComparison(records, aggregates, label, models.ComparisonTemporal)
	}

	return records, nil
}

func (e *Engine) compareParameters(ctx context.Context, req *models.QueryRequest) ([]models.ComparisonRecord, error) {
	var records []models.ComparisonRecord
	for _, parameter := range req.Parameters {
		groupReq := *req
		groupReq.Parameters = []string{parameter}

		aggregates, err := e.AggregateStatistics(ctx, &groupReq)
		if err != nil {
			return nil, err
		}

		records = appendComparison(records, aggregates, parameter, models.ComparisonParametric)
	}

	return records, nil
}

func appendComparison(records []models.ComparisonRecord, aggregates []models.AggregateRecord, group, kind string) []models.ComparisonRecord {
	for _, aggregate := range aggregates {
		records = append(records, models.ComparisonRecord{
			AggregateRecord: aggregate,
			ComparisonGroup: group,
			ComparisonType:  kind,
		})
	}
	return records
}

// DataSummary reports what data exists under the spatial and temporal
// filters: profile counts, extents, and per-channel sample coverage.
func (e *Engine) DataSummary(ctx context.Context, req *models.QueryRequest) (*models.AvailabilitySummary, error) {
	timer := time.Now()
	defer func() {
		e.metrics.QueryDuration.WithLabelValues(shapeSummary).Observe(time.Since(timer).Seconds())
	}()

	where, err := buildFilters(req, false)
	if err != nil {
		return nil, err
	}

	sqlText, args := buildSummarySQL(where)

	var row struct {
		TotalProfiles int      `db:"total_profiles"`
		UniqueDates   int      `db:"unique_dates"`
		EarliestDate  *string  `db:"earliest_date"`
		LatestDate    *string  `db:"latest_date"`
		MinLat        *float64 `db:"min_lat"`
		MaxLat        *float64 `db:"max_lat"`
		MinLon        *float64 `db:"min_lon"`
		MaxLon        *float64 `db:"max_lon"`
		MinDepth      *float64 `db:"min_depth"`
		MaxDepth      *float64 `db:"max_depth"`
	}

	if err := e.db.GetContext(ctx, "data_summary", &row, e.db.Rebind(sqlText), args...); err != nil {
		return nil, fmt.Errorf("data summary query failed: %w", err)
	}

	summary := &models.AvailabilitySummary{
		TotalProfiles:       row.TotalProfiles,
		UniqueDates:         row.UniqueDates,
		AvailableParameters: make([]models.ParameterCoverage, 0, 7),
	}

	if row.EarliestDate != nil && row.LatestDate != nil {
		summary.DateRange = []string{*row.EarliestDate, *row.LatestDate}
	}
	if row.MinLat != nil && row.MaxLat != nil {
		summary.LatRange = []float64{*row.MinLat, *row.MaxLat}
	}
	if row.MinLon != nil && row.MaxLon != nil {
		summary.LonRange = []float64{*row.MinLon, *row.MaxLon}
	}
	if row.MinDepth != nil && row.MaxDepth != nil {
		summary.DepthRange = []float64{*row.MinDepth, *row.MaxDepth}
	}

	for _, column := range registry.KnownColumns() {
		if column == "pressure" {
			continue // pressure keys the sample, it is never absent
		}

		coverageSQL, coverageArgs := buildCoverageSQL(column, where)

		var count int
		if err := e.db.GetContext(ctx, "parameter_coverage", &count, e.db.Rebind(coverageSQL), coverageArgs...); err != nil {
			e.logger.Error(ctx, "[QUERY_COVERAGE_ERROR] Coverage count failed", logging.Fields{
				"column": column,
			}, err)
			continue
		}

		if count == 0 {
			continue
		}

		coverage := models.ParameterCoverage{Parameter: column, Count: count}
		if summary.TotalProfiles > 0 {
			coverage.Coverage = roundTo1(float64(count) / float64(summary.TotalProfiles) * 100)
		}
		summary.AvailableParameters = append(summary.AvailableParameters, coverage)
	}

	return summary, nil
}

// expandParameters applies the shape's default set. Anomaly detection
// also defaults on an empty list; aggregate statistics only expands the
// explicit "all".
func expandParameters(parameters, defaults []string, defaultOnEmpty bool) []string {
	if len(parameters) == 0 {
		if defaultOnEmpty {
			return defaults
		}
		return nil
	}

	for _, p := range parameters {
		if strings.EqualFold(p, "all") {
			return defaults
		}
	}

	return parameters
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
