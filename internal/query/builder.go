package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/VamP08/FloatChat/internal/registry"
)

// Aggregate operation keywords. Unrecognized keywords fall back to AVG;
// the engine logs that distinctly so a stricter mode can be layered on
// without changing the contract.
var aggregateOps = map[string]string{
	"average": "AVG",
	"mean":    "AVG",
	"avg":     "AVG",
	"maximum": "MAX",
	"max":     "MAX",
	"minimum": "MIN",
	"min":     "MIN",
	"count":   "COUNT",
	"sum":     "SUM",
}

// resolveOperation maps an operation keyword to its SQL aggregate.
// isStd selects the two-pass population standard deviation template.
// known is false when the keyword fell back to averaging.
func resolveOperation(operation string) (fn string, isStd, known bool) {
	op := strings.ToLower(strings.TrimSpace(operation))

	if op == "std" || op == "standard_deviation" {
		return "", true, true
	}

	if fn, ok := aggregateOps[op]; ok {
		return fn, false, true
	}

	return "AVG", false, false
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// safeColumn guards identifier interpolation. Registry columns pass
// directly; unknown parameter names pass through as literal column
// references only when they are plain identifiers, so a missing column
// surfaces as a per-parameter storage error instead of injected SQL.
func safeColumn(column string) error {
	if registry.IsKnownColumn(column) {
		return nil
	}
	if !identifierPattern.MatchString(column) {
		return fmt.Errorf("invalid column identifier: %q", column)
	}
	return nil
}

const measurementJoin = "FROM profiles p JOIN measurements m ON p.id = m.profile_id"

// buildAggregateSQL builds the single-aggregate template for one column.
// Rows where the channel is absent never contribute.
func buildAggregateSQL(column, aggFn string, where Filter) (string, []interface{}) {
	sql := fmt.Sprintf(`
		SELECT %s(m.%s) AS value, COUNT(m.%s) AS count
		%s
		WHERE %s AND m.%s IS NOT NULL
	`, aggFn, column, column, measurementJoin, where.Clause, column)

	return sql, where.Args
}

// buildStdDevSQL builds the population standard deviation template: the
// overall mean in a sub-step, then the root of the mean squared deviation.
// The filter args bind twice because the WHERE clause appears twice.
func buildStdDevSQL(column string, where Filter) (string, []interface{}) {
	sql := fmt.Sprintf(`
		WITH overall AS (
			SELECT AVG(m.%s) AS avg_val
			%s
			WHERE %s AND m.%s IS NOT NULL
		)
		SELECT SQRT(AVG((m.%s - o.avg_val) * (m.%s - o.avg_val))) AS value,
		       COUNT(m.%s) AS count
		%s
		CROSS JOIN overall o
		WHERE %s AND m.%s IS NOT NULL
	`, column, measurementJoin, where.Clause, column,
		column, column, column, measurementJoin, where.Clause, column)

	args := make([]interface{}, 0, len(where.Args)*2)
	args = append(args, where.Args...)
	args = append(args, where.Args...)

	return sql, args
}

// buildMonthlySQL buckets one channel by calendar month within the filters
func buildMonthlySQL(column string, where Filter) (string, []interface{}) {
	sql := fmt.Sprintf(`
		SELECT to_char(p.profile_date, 'YYYY-MM') AS month,
		       AVG(m.%s) AS avg_value,
		       MIN(m.%s) AS min_value,
		       MAX(m.%s) AS max_value,
		       COUNT(m.%s) AS sample_count
		%s
		WHERE %s AND m.%s IS NOT NULL
		GROUP BY to_char(p.profile_date, 'YYYY-MM')
		ORDER BY month
	`, column, column, column, column, measurementJoin, where.Clause, column)

	return sql, where.Args
}

// buildProfileSQL projects the requested channels plus position context.
// The row cap binds as the final placeholder.
func buildProfileSQL(columns []string, where Filter, limit int) (string, []interface{}) {
	selected := []string{
		"to_char(p.profile_date, 'YYYY-MM-DD') AS date",
		"p.latitude",
		"p.longitude",
		"m.pressure",
	}
	for _, column := range columns {
		if column == "pressure" {
			continue // always projected
		}
		selected = append(selected, "m."+column)
	}

	sql := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY p.profile_date DESC, m.pressure ASC
		LIMIT ?
	`, strings.Join(selected, ", "), measurementJoin, where.Clause)

	args := make([]interface{}, 0, len(where.Args)+1)
	args = append(args, where.Args...)
	args = append(args, limit)

	return sql, args
}

// buildSummarySQL builds the coverage extents template
func buildSummarySQL(where Filter) (string, []interface{}) {
	sql := fmt.Sprintf(`
		SELECT COUNT(DISTINCT p.id) AS total_profiles,
		       COUNT(DISTINCT p.profile_date) AS unique_dates,
		       to_char(MIN(p.profile_date), 'YYYY-MM-DD') AS earliest_date,
		       to_char(MAX(p.profile_date), 'YYYY-MM-DD') AS latest_date,
		       MIN(p.latitude) AS min_lat,
		       MAX(p.latitude) AS max_lat,
		       MIN(p.longitude) AS min_lon,
		       MAX(p.longitude) AS max_lon,
		       MIN(m.pressure) AS min_depth,
		       MAX(m.pressure) AS max_depth
		%s
		WHERE %s
	`, measurementJoin, where.Clause)

	return sql, where.Args
}

// buildCoverageSQL counts non-null samples for one channel
func buildCoverageSQL(column string, where Filter) (string, []interface{}) {
	sql := fmt.Sprintf(`
		SELECT COUNT(*)
		%s
		WHERE %s AND m.%s IS NOT NULL
	`, measurementJoin, where.Clause, column)

	return sql, where.Args
}
