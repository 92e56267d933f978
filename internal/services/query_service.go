package services

import (
	"context"
	"sort"
	"time"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/internal/query"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// QueryService dispatches structured function calls to the template engine
type QueryService struct {
	engine  *query.Engine
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewQueryService creates a new query service
func NewQueryService(engine *query.Engine, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *QueryService {
	return &QueryService{
		engine:  engine,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Execute runs one function call and returns its tagged result
func (s *QueryService) Execute(ctx context.Context, call models.FunctionCall) (*models.QueryResult, error) {
	startTime := time.Now()
	result := &models.QueryResult{Function: call.Function}

	var err error
	switch call.Function {
	case models.FuncAggregateStatistics:
		result.Aggregates, err = s.engine.AggregateStatistics(ctx, &call.Arguments)
	case models.FuncDetectAnomalies:
		result.Anomalies, err = s.engine.DetectAnomalies(ctx, &call.Arguments)
	case models.FuncProfileData:
		result.Profiles, err = s.engine.ProfileData(ctx, &call.Arguments)
	case models.FuncCompareData:
		result.Comparisons, err = s.engine.Compare(ctx, &call.Arguments)
	case models.FuncDataSummary:
		result.Summary, err = s.engine.DataSummary(ctx, &call.Arguments)
	default:
		return nil, &models.UnknownFunctionError{Function: call.Function}
	}

	if err != nil {
		s.logger.Error(ctx, "[QUERY_EXECUTE_ERROR] Function call failed", logging.Fields{
			"function": call.Function,
		}, err)
		return nil, err
	}

	s.logger.Info(ctx, "[QUERY_EXECUTE] Function call completed", logging.Fields{
		"function":    call.Function,
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return result, nil
}

// ExecuteBatch runs a sequence of function calls. A failed call is
// counted in the summary and does not abort the remaining calls.
func (s *QueryService) ExecuteBatch(ctx context.Context, calls []models.FunctionCall) ([]models.QueryResult, models.BatchSummary) {
	results := make([]models.QueryResult, 0, len(calls))
	failedCalls := 0

	for _, call := range calls {
		result, err := s.Execute(ctx, call)
		if err != nil {
			failedCalls++
			continue
		}
		results = append(results, *result)
	}

	return results, s.Summarize(results, len(calls), failedCalls)
}

// Summarize derives batch-level outcome statistics from a set of results
func (s *QueryService) Summarize(results []models.QueryResult, totalCalls, failedCalls int) models.BatchSummary {
	summary := models.BatchSummary{
		TotalFunctionsCalled: totalCalls,
		FailedQueries:        failedCalls,
	}

	parameters := make(map[string]bool)

	for _, result := range results {
		for _, record := range result.Aggregates {
			countAggregate(&summary, record, parameters)
		}
		for _, record := range result.Comparisons {
			countAggregate(&summary, record.AggregateRecord, parameters)
		}
		for _, record := range result.Anomalies {
			if record.Error != "" {
				summary.FailedQueries++
				continue
			}
			summary.SuccessfulQueries++
			summary.AnomaliesDetected += record.AnomalyCount
			summary.TotalMonthsAnalyzed += record.TotalMonths
			summary.DataPointsAnalyzed += record.TotalMonths
			parameters[record.Parameter] = true
		}
		if result.Function == models.FuncProfileData {
			summary.SuccessfulQueries++
			summary.DataPointsAnalyzed += len(result.Profiles)
		}
		if result.Summary != nil {
			summary.SuccessfulQueries++
			summary.DataPointsAnalyzed += result.Summary.TotalProfiles
		}
	}

	if summary.TotalMonthsAnalyzed > 0 {
		summary.AnomalyRate = float64(summary.AnomaliesDetected) / float64(summary.TotalMonthsAnalyzed)
	}

	summary.ParametersAnalyzed = make([]string, 0, len(parameters))
	for parameter := range parameters {
		summary.ParametersAnalyzed = append(summary.ParametersAnalyzed, parameter)
	}
	sort.Strings(summary.ParametersAnalyzed)

	return summary
}

func countAggregate(summary *models.BatchSummary, record models.AggregateRecord, parameters map[string]bool) {
	if record.Error != "" {
		summary.FailedQueries++
		return
	}
	summary.SuccessfulQueries++
	summary.DataPointsAnalyzed += record.Count
	parameters[record.Parameter] = true
}
