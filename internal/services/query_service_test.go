package services

import (
	"reflect"
	"testing"

	"github.com/VamP08/FloatChat/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	svc := NewQueryService(nil, nil, nil)

	results := []models.QueryResult{
		{
			Function: models.FuncAggregateStatistics,
			Aggregates: []models.AggregateRecord{
				{Parameter: "temp", Value: floatPtr(28.4), Count: 1500, Operation: "average"},
				{Parameter: "psal", Value: floatPtr(34.9), Count: 1400, Operation: "average"},
				{Parameter: "doxy", Error: "No data found for doxy in the specified region/time range"},
			},
		},
		{
			Function: models.FuncDetectAnomalies,
			Anomalies: []models.AnomalyRecord{
				{Parameter: "temp", AnomalyCount: 2, TotalMonths: 12},
				{Parameter: "chla", Error: "Insufficient data for chla analysis in the specified region/time range"},
			},
		},
		{
			Function: models.FuncProfileData,
			Profiles: make([]models.ProfileRow, 50),
		},
	}

	// Four calls attempted, one failed before producing a result
	summary := svc.Summarize(results, 4, 1)

	if summary.TotalFunctionsCalled != 4 {
		t.Errorf("TotalFunctionsCalled = %d, want 4", summary.TotalFunctionsCalled)
	}

	// 2 aggregate records + 1 anomaly record + 1 profile query
	if summary.SuccessfulQueries != 4 {
		t.Errorf("SuccessfulQueries = %d, want 4", summary.SuccessfulQueries)
	}

	// 1 call failure + 1 no-data aggregate + 1 insufficient anomaly
	if summary.FailedQueries != 3 {
		t.Errorf("FailedQueries = %d, want 3", summary.FailedQueries)
	}

	// 1500 + 1400 aggregate samples + 12 months + 50 profile rows
	if summary.DataPointsAnalyzed != 2962 {
		t.Errorf("DataPointsAnalyzed = %d, want 2962", summary.DataPointsAnalyzed)
	}

	if summary.AnomaliesDetected != 2 {
		t.Errorf("AnomaliesDetected = %d, want 2", summary.AnomaliesDetected)
	}

	if summary.TotalMonthsAnalyzed != 12 {
		t.Errorf("TotalMonthsAnalyzed = %d, want 12", summary.TotalMonthsAnalyzed)
	}

	wantRate := 2.0 / 12.0
	if summary.AnomalyRate != wantRate {
		t.Errorf("AnomalyRate = %f, want %f", summary.AnomalyRate, wantRate)
	}

	wantParams := []string{"psal", "temp"}
	if !reflect.DeepEqual(summary.ParametersAnalyzed, wantParams) {
		t.Errorf("ParametersAnalyzed = %v, want %v", summary.ParametersAnalyzed, wantParams)
	}
}

func TestSummarizeComparisons(t *testing.T) {
	svc := NewQueryService(nil, nil, nil)

	results := []models.QueryResult{
		{
			Function: models.FuncCompareData,
			Comparisons: []models.ComparisonRecord{
				{
					AggregateRecord: models.AggregateRecord{Parameter: "temp", Value: floatPtr(28.4), Count: 800},
					ComparisonGroup: "Bay Of Bengal",
					ComparisonType:  models.ComparisonRegional,
				},
				{
					AggregateRecord: models.AggregateRecord{Parameter: "temp", Value: floatPtr(27.1), Count: 600},
					ComparisonGroup: "Arabian Sea",
					ComparisonType:  models.ComparisonRegional,
				},
			},
		},
	}

	summary := svc.Summarize(results, 1, 0)

	if summary.SuccessfulQueries != 2 {
		t.Errorf("SuccessfulQueries = %d, want 2", summary.SuccessfulQueries)
	}

	if summary.DataPointsAnalyzed != 1400 {
		t.Errorf("DataPointsAnalyzed = %d, want 1400", summary.DataPointsAnalyzed)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	svc := NewQueryService(nil, nil, nil)

	summary := svc.Summarize(nil, 0, 0)

	if summary.TotalFunctionsCalled != 0 || summary.SuccessfulQueries != 0 {
		t.Errorf("empty batch produced %+v", summary)
	}

	if summary.AnomalyRate != 0 {
		t.Errorf("AnomalyRate = %f, want 0 without months analyzed", summary.AnomalyRate)
	}

	if len(summary.ParametersAnalyzed) != 0 {
		t.Errorf("ParametersAnalyzed = %v, want empty", summary.ParametersAnalyzed)
	}
}
