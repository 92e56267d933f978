package query

import (
	"fmt"
	"math"

	"github.com/VamP08/FloatChat/internal/models"
)

// monthlyStat is one calendar-month bucket of a channel
type monthlyStat struct {
	Month       string  `db:"month"`
	AvgValue    float64 `db:"avg_value"`
	MinValue    float64 `db:"min_value"`
	MaxValue    float64 `db:"max_value"`
	SampleCount int     `db:"sample_count"`
}

// monthlyAnalysis is the derived output of one anomaly analysis window
type monthlyAnalysis struct {
	AnomalyRate      float64
	TotalMonths      int
	PeriodAvg        float64
	PeriodMin        float64
	PeriodMax        float64
	VariabilityRatio float64
	AnomalyCount     int
	Trends           []models.MonthlyTrend
	Summary          string
}

// analyzeMonths classifies each month against the window mean using a
// z-score threshold and derives the window summary statistics. A window
// with zero standard deviation never flags anomalies.
func analyzeMonths(months []monthlyStat, threshold float64) monthlyAnalysis {
	analysis := monthlyAnalysis{TotalMonths: len(months)}
	if len(months) == 0 {
		return analysis
	}

	means := make([]float64, len(months))
	for i, m := range months {
		means[i] = m.AvgValue
	}

	windowMean := mean(means)
	windowStd := populationStdDev(means, windowMean)

	analysis.Trends = make([]models.MonthlyTrend, len(months))
	for i, m := range months {
		status := models.StatusNormal
		if windowStd > 0 && math.Abs(m.AvgValue-windowMean)/windowStd > threshold {
			status = models.StatusAnomaly
			analysis.AnomalyCount++
		}
		analysis.Trends[i] = models.MonthlyTrend{
			Month:  m.Month,
			Value:  m.AvgValue,
			Status: status,
		}
	}

	analysis.AnomalyRate = float64(analysis.AnomalyCount) / float64(len(months))
	analysis.PeriodAvg = windowMean
	analysis.PeriodMin = minFloat(means)
	analysis.PeriodMax = maxFloat(means)
	if analysis.PeriodAvg != 0 {
		analysis.VariabilityRatio = (analysis.PeriodMax - analysis.PeriodMin) / analysis.PeriodAvg
	}

	analysis.Summary = trendSummary(analysis, means)

	return analysis
}

// trendSummary produces the human-readable narrative: anomaly counts,
// then the direction of the last three months against the first three.
func trendSummary(analysis monthlyAnalysis, means []float64) string {
	summary := fmt.Sprintf("Analyzed %d months of data. ", analysis.TotalMonths)

	if analysis.AnomalyCount > 0 {
		summary += fmt.Sprintf("Found %d anomalous months (%.1f%% of period). ",
			analysis.AnomalyCount, analysis.AnomalyRate*100)
	} else {
		summary += "No significant anomalies detected. "
	}

	if len(means) >= 3 {
		recentAvg := mean(means[len(means)-3:])
		earlierAvg := mean(means[:3])

		denominator := math.Abs(earlierAvg)
		if denominator < 0.01 {
			denominator = 0.01
		}

		if math.Abs(recentAvg-earlierAvg)/denominator > 0.05 {
			direction := "downward"
			if recentAvg > earlierAvg {
				direction = "upward"
			}
			summary += fmt.Sprintf("Trending %s (recent avg: %.3f vs earlier: %.3f).",
				direction, recentAvg, earlierAvg)
		} else {
			summary += "Relatively stable trend observed."
		}
	}

	return summary
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1, for consistency with the
// standard-deviation aggregate template
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func minFloat(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxFloat(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
