package registry

import (
	"testing"
)

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOK     bool
		wantBounds Bounds
	}{
		{
			name:       "exact canonical key",
			query:      "bay of bengal",
			wantOK:     true,
			wantBounds: Bounds{LatMin: 5, LatMax: 22, LonMin: 80, LonMax: 95},
		},
		{
			name:       "case insensitive with whitespace",
			query:      "  Arabian Sea ",
			wantOK:     true,
			wantBounds: Bounds{LatMin: 8, LatMax: 25, LonMin: 50, LonMax: 80},
		},
		{
			name:       "distinctive word only",
			query:      "bengal",
			wantOK:     true,
			wantBounds: Bounds{LatMin: 5, LatMax: 22, LonMin: 80, LonMax: 95},
		},
		{
			name:       "canonical key embedded in longer phrase",
			query:      "the southern ocean near antarctica",
			wantOK:     true,
			wantBounds: Bounds{LatMin: -70, LatMax: -40, LonMin: -180, LonMax: 180},
		},
		{
			name:       "distinctive word in longer phrase",
			query:      "somewhere in the mediterranean",
			wantOK:     true,
			wantBounds: Bounds{LatMin: 30, LatMax: 46, LonMin: -6, LonMax: 36},
		},
		{
			name:   "unknown region",
			query:  "atlantis",
			wantOK: false,
		},
		{
			name:   "empty string",
			query:  "",
			wantOK: false,
		},
		{
			name:   "generic word alone does not match",
			query:  "ocean",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds, ok := ResolveRegion(tt.query)

			if ok != tt.wantOK {
				t.Fatalf("ResolveRegion(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}

			if ok && bounds != tt.wantBounds {
				t.Errorf("ResolveRegion(%q) = %+v, want %+v", tt.query, bounds, tt.wantBounds)
			}
		})
	}
}

func TestBoundsWraps(t *testing.T) {
	wrapping := Bounds{LonMin: 170, LonMax: -170}
	if !wrapping.Wraps() {
		t.Error("Wraps() = false for LonMin > LonMax, want true")
	}

	normal := Bounds{LonMin: 80, LonMax: 95}
	if normal.Wraps() {
		t.Error("Wraps() = true for LonMin < LonMax, want false")
	}
}

func TestNormalizeParameter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical column passes through", "temp", "temp"},
		{"temperature synonym", "temperature", "temp"},
		{"case insensitive synonym", "Salinity", "psal"},
		{"oxygen shorthand", "o2", "doxy"},
		{"dissolved oxygen", "dissolved_oxygen", "doxy"},
		{"chlorophyll", "chlorophyll", "chla"},
		{"nitrate shorthand", "no3", "nitrate"},
		{"ph total", "ph_total", "ph"},
		{"backscatter", "backscatter", "bbp700"},
		{"pressure synonym", "pres", "pressure"},
		{"unknown name passes through lowercased", "Turbidity", "turbidity"},
		{"whitespace trimmed", " temp ", "temp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeParameter(tt.input); got != tt.want {
				t.Errorf("NormalizeParameter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKnownColumns(t *testing.T) {
	columns := KnownColumns()

	if len(columns) != 8 {
		t.Fatalf("KnownColumns() returned %d columns, want 8", len(columns))
	}

	for i := 1; i < len(columns); i++ {
		if columns[i-1] >= columns[i] {
			t.Errorf("KnownColumns() not sorted: %q before %q", columns[i-1], columns[i])
		}
	}

	for _, column := range columns {
		if !IsKnownColumn(column) {
			t.Errorf("IsKnownColumn(%q) = false for listed column", column)
		}
	}

	if IsKnownColumn("turbidity") {
		t.Error("IsKnownColumn(\"turbidity\") = true, want false")
	}
}

func TestDefaultComparisonRegions(t *testing.T) {
	if len(DefaultComparisonRegions) != 2 {
		t.Fatalf("DefaultComparisonRegions has %d entries, want 2", len(DefaultComparisonRegions))
	}

	for _, region := range DefaultComparisonRegions {
		if _, ok := ResolveRegion(region); !ok {
			t.Errorf("default comparison region %q does not resolve", region)
		}
	}
}
