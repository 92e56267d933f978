package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/VamP08/FloatChat/internal/models"
)

func TestSpatialFilter(t *testing.T) {
	tests := []struct {
		name       string
		region     string
		latBounds  []float64
		lonBounds  []float64
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "known region resolves to its box",
			region:     "bay of bengal",
			wantClause: "p.latitude BETWEEN ? AND ? AND p.longitude BETWEEN ? AND ?",
			wantArgs:   []interface{}{5.0, 22.0, 80.0, 95.0},
		},
		{
			name:       "region takes precedence over explicit bounds",
			region:     "arabian sea",
			latBounds:  []float64{0, 1},
			lonBounds:  []float64{0, 1},
			wantClause: "p.latitude BETWEEN ? AND ? AND p.longitude BETWEEN ? AND ?",
			wantArgs:   []interface{}{8.0, 25.0, 50.0, 80.0},
		},
		{
			name:       "explicit bounds without region",
			latBounds:  []float64{-10, 10},
			lonBounds:  []float64{60, 90},
			wantClause: "p.latitude BETWEEN ? AND ? AND p.longitude BETWEEN ? AND ?",
			wantArgs:   []interface{}{-10.0, 10.0, 60.0, 90.0},
		},
		{
			name:       "wrapping longitude becomes OR predicate",
			lonBounds:  []float64{170, -170},
			wantClause: "(p.longitude >= ? OR p.longitude <= ?)",
			wantArgs:   []interface{}{170.0, -170.0},
		},
		{
			name:       "latitude only",
			latBounds:  []float64{-40, 25},
			wantClause: "p.latitude BETWEEN ? AND ?",
			wantArgs:   []interface{}{-40.0, 25.0},
		},
		{
			name:   "unknown region with no bounds yields no predicate",
			region: "atlantis",
		},
		{
			name: "no inputs yields no predicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spatialFilter(tt.region, tt.latBounds, tt.lonBounds)

			if got.Clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", got.Clause, tt.wantClause)
			}

			if tt.wantArgs == nil {
				if len(got.Args) != 0 {
					t.Errorf("args = %v, want none", got.Args)
				}
				return
			}

			if !reflect.DeepEqual(got.Args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", got.Args, tt.wantArgs)
			}
		})
	}
}

func TestTemporalFilter(t *testing.T) {
	tests := []struct {
		name      string
		dateRange []string
		wantArgs  []interface{}
		wantErr   bool
	}{
		{
			name:      "single date expands to one-day inclusive range",
			dateRange: []string{"2023-03-10"},
			wantArgs:  []interface{}{"2023-03-10", "2023-03-11"},
		},
		{
			name:      "single date at month boundary",
			dateRange: []string{"2023-01-31"},
			wantArgs:  []interface{}{"2023-01-31", "2023-02-01"},
		},
		{
			name:      "single date at year boundary",
			dateRange: []string{"2023-12-31"},
			wantArgs:  []interface{}{"2023-12-31", "2024-01-01"},
		},
		{
			name:      "two dates used verbatim",
			dateRange: []string{"2023-01-01", "2023-06-30"},
			wantArgs:  []interface{}{"2023-01-01", "2023-06-30"},
		},
		{
			name:      "empty range yields no predicate",
			dateRange: nil,
		},
		{
			name:      "unparseable date",
			dateRange: []string{"March 10"},
			wantErr:   true,
		},
		{
			name:      "unparseable second date",
			dateRange: []string{"2023-01-01", "soon"},
			wantErr:   true,
		},
		{
			name:      "three dates",
			dateRange: []string{"2023-01-01", "2023-02-01", "2023-03-01"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := temporalFilter(tt.dateRange)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var rangeErr *models.InvalidRangeError
				if !errors.As(err, &rangeErr) {
					t.Errorf("error type = %T, want *models.InvalidRangeError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantArgs == nil {
				if !got.Empty() {
					t.Errorf("filter = %+v, want empty", got)
				}
				return
			}

			if got.Clause != "p.profile_date BETWEEN ? AND ?" {
				t.Errorf("clause = %q", got.Clause)
			}

			if !reflect.DeepEqual(got.Args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", got.Args, tt.wantArgs)
			}
		})
	}
}

func TestTemporalFilterDateEquivalence(t *testing.T) {
	// A single date must filter like the explicit [D, D+1] range
	single, err := temporalFilter([]string{"2023-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	explicit, err := temporalFilter([]string{"2023-03-10", "2023-03-11"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if single.Clause != explicit.Clause || !reflect.DeepEqual(single.Args, explicit.Args) {
		t.Errorf("single date filter %+v differs from explicit range %+v", single, explicit)
	}
}

func TestDepthFilter(t *testing.T) {
	tests := []struct {
		name       string
		depthRange []float64
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "shallow target uses 50 dbar floor",
			depthRange: []float64{100},
			wantClause: "ABS(m.pressure - ?) <= ?",
			wantArgs:   []interface{}{100.0, 50.0},
		},
		{
			name:       "deep target uses 10 percent tolerance",
			depthRange: []float64{1000},
			wantClause: "ABS(m.pressure - ?) <= ?",
			wantArgs:   []interface{}{1000.0, 100.0},
		},
		{
			name:       "crossover point takes the larger window",
			depthRange: []float64{500},
			wantClause: "ABS(m.pressure - ?) <= ?",
			wantArgs:   []interface{}{500.0, 50.0},
		},
		{
			name:       "explicit band",
			depthRange: []float64{50, 150},
			wantClause: "m.pressure BETWEEN ? AND ?",
			wantArgs:   []interface{}{50.0, 150.0},
		},
		{
			name: "no depth yields no predicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := depthFilter(tt.depthRange)

			if got.Clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", got.Clause, tt.wantClause)
			}

			if tt.wantArgs != nil && !reflect.DeepEqual(got.Args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", got.Args, tt.wantArgs)
			}
		})
	}
}

func TestBuildFilters(t *testing.T) {
	t.Run("empty request degenerates to 1=1", func(t *testing.T) {
		got, err := buildFilters(&models.QueryRequest{}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Clause != "1=1" {
			t.Errorf("clause = %q, want 1=1", got.Clause)
		}
		if len(got.Args) != 0 {
			t.Errorf("args = %v, want none", got.Args)
		}
	})

	t.Run("args follow spatial temporal depth order", func(t *testing.T) {
		req := &models.QueryRequest{
			Region:     "bay of bengal",
			DateRange:  []string{"2023-01-01", "2023-06-30"},
			DepthRange: []float64{0, 200},
		}

		got, err := buildFilters(req, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []interface{}{5.0, 22.0, 80.0, 95.0, "2023-01-01", "2023-06-30", 0.0, 200.0}
		if !reflect.DeepEqual(got.Args, want) {
			t.Errorf("args = %v, want %v", got.Args, want)
		}
	})

	t.Run("withDepth false ignores depth range", func(t *testing.T) {
		req := &models.QueryRequest{
			DepthRange: []float64{0, 200},
		}

		got, err := buildFilters(req, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Clause != "1=1" {
			t.Errorf("clause = %q, want 1=1", got.Clause)
		}
	})

	t.Run("bad date range propagates", func(t *testing.T) {
		req := &models.QueryRequest{
			DateRange: []string{"bad"},
		}

		if _, err := buildFilters(req, true); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
