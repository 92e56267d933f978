package query

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolveOperation(t *testing.T) {
	tests := []struct {
		operation string
		wantFn    string
		wantStd   bool
		wantKnown bool
	}{
		{"average", "AVG", false, true},
		{"mean", "AVG", false, true},
		{"avg", "AVG", false, true},
		{"maximum", "MAX", false, true},
		{"max", "MAX", false, true},
		{"minimum", "MIN", false, true},
		{"min", "MIN", false, true},
		{"count", "COUNT", false, true},
		{"sum", "SUM", false, true},
		{"std", "", true, true},
		{"standard_deviation", "", true, true},
		{"Average", "AVG", false, true},
		{" max ", "MAX", false, true},
		{"median", "AVG", false, false},
		{"", "AVG", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			fn, isStd, known := resolveOperation(tt.operation)

			if fn != tt.wantFn || isStd != tt.wantStd || known != tt.wantKnown {
				t.Errorf("resolveOperation(%q) = (%q, %v, %v), want (%q, %v, %v)",
					tt.operation, fn, isStd, known, tt.wantFn, tt.wantStd, tt.wantKnown)
			}
		})
	}
}

func TestSafeColumn(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		wantErr bool
	}{
		{"registry column", "temp", false},
		{"unknown plain identifier", "turbidity", false},
		{"underscore identifier", "custom_channel", false},
		{"injection attempt", "temp; DROP TABLE measurements", true},
		{"quoted injection", `temp" OR "1"="1`, true},
		{"uppercase rejected", "Temp", true},
		{"leading digit rejected", "7days", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := safeColumn(tt.column)
			if (err != nil) != tt.wantErr {
				t.Errorf("safeColumn(%q) error = %v, wantErr %v", tt.column, err, tt.wantErr)
			}
		})
	}
}

func TestBuildAggregateSQL(t *testing.T) {
	where := Filter{
		Clause: "p.latitude BETWEEN ? AND ?",
		Args:   []interface{}{5.0, 22.0},
	}

	sql, args := buildAggregateSQL("temp", "AVG", where)

	if !strings.Contains(sql, "AVG(m.temp) AS value") {
		t.Errorf("missing aggregate projection in:\n%s", sql)
	}
	if !strings.Contains(sql, "COUNT(m.temp) AS count") {
		t.Errorf("missing count projection in:\n%s", sql)
	}
	if !strings.Contains(sql, "m.temp IS NOT NULL") {
		t.Errorf("missing null guard in:\n%s", sql)
	}
	if !strings.Contains(sql, where.Clause) {
		t.Errorf("missing filter clause in:\n%s", sql)
	}

	if !reflect.DeepEqual(args, where.Args) {
		t.Errorf("args = %v, want %v", args, where.Args)
	}
}

func TestBuildStdDevSQL(t *testing.T) {
	where := Filter{
		Clause: "p.profile_date BETWEEN ? AND ?",
		Args:   []interface{}{"2023-01-01", "2023-06-30"},
	}

	sql, args := buildStdDevSQL("psal", where)

	if !strings.Contains(sql, "WITH overall AS") {
		t.Errorf("missing mean sub-step in:\n%s", sql)
	}
	if !strings.Contains(sql, "SQRT(AVG((m.psal - o.avg_val) * (m.psal - o.avg_val)))") {
		t.Errorf("missing deviation expression in:\n%s", sql)
	}

	// The filter appears in both passes, so its args bind twice
	want := []interface{}{"2023-01-01", "2023-06-30", "2023-01-01", "2023-06-30"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}

	if got := strings.Count(sql, where.Clause); got != 2 {
		t.Errorf("filter clause appears %d times, want 2", got)
	}
}

func TestBuildMonthlySQL(t *testing.T) {
	where := Filter{Clause: "1=1"}

	sql, args := buildMonthlySQL("doxy", where)

	if !strings.Contains(sql, "to_char(p.profile_date, 'YYYY-MM') AS month") {
		t.Errorf("missing month bucket in:\n%s", sql)
	}
	if !strings.Contains(sql, "GROUP BY to_char(p.profile_date, 'YYYY-MM')") {
		t.Errorf("missing group by in:\n%s", sql)
	}
	if !strings.Contains(sql, "ORDER BY month") {
		t.Errorf("missing chronological ordering in:\n%s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildProfileSQL(t *testing.T) {
	where := Filter{
		Clause: "m.pressure BETWEEN ? AND ?",
		Args:   []interface{}{0.0, 200.0},
	}

	sql, args := buildProfileSQL([]string{"temp", "pressure", "psal"}, where, 100)

	if !strings.Contains(sql, "to_char(p.profile_date, 'YYYY-MM-DD') AS date") {
		t.Errorf("missing date projection in:\n%s", sql)
	}
	if !strings.Contains(sql, "m.temp") || !strings.Contains(sql, "m.psal") {
		t.Errorf("missing requested channels in:\n%s", sql)
	}

	// Pressure is always projected once; requesting it must not duplicate it
	if got := strings.Count(sql, "m.pressure,"); got != 1 {
		t.Errorf("m.pressure projected %d times, want 1 in:\n%s", got, sql)
	}

	if !strings.Contains(sql, "ORDER BY p.profile_date DESC, m.pressure ASC") {
		t.Errorf("missing ordering in:\n%s", sql)
	}

	want := []interface{}{0.0, 200.0, 100}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildSummarySQL(t *testing.T) {
	where := Filter{
		Clause: "p.latitude BETWEEN ? AND ?",
		Args:   []interface{}{5.0, 22.0},
	}

	sql, args := buildSummarySQL(where)

	for _, projection := range []string{
		"COUNT(DISTINCT p.id) AS total_profiles",
		"COUNT(DISTINCT p.profile_date) AS unique_dates",
		"MIN(m.pressure) AS min_depth",
	} {
		if !strings.Contains(sql, projection) {
			t.Errorf("missing %q in:\n%s", projection, sql)
		}
	}

	if !reflect.DeepEqual(args, where.Args) {
		t.Errorf("args = %v, want %v", args, where.Args)
	}
}

func TestBuildCoverageSQL(t *testing.T) {
	sql, _ := buildCoverageSQL("chla", Filter{Clause: "1=1"})

	if !strings.Contains(sql, "m.chla IS NOT NULL") {
		t.Errorf("missing null guard in:\n%s", sql)
	}
}
