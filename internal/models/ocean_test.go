package models

import (
	"testing"
)

func TestFloatDocumentValidate(t *testing.T) {
	valid := func() *FloatDocument {
		return &FloatDocument{
			FloatID:     "2902746",
			ProjectName: "INCOIS",
			Profiles: []ProfileDocument{
				{CycleNumber: 1, ProfileDate: "2023-01-15", Latitude: 12.5, Longitude: 88.0},
				{CycleNumber: 2, ProfileDate: "2023-01-25", Latitude: 12.7, Longitude: 88.2},
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*FloatDocument)
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid document",
			mutate:  func(d *FloatDocument) {},
			wantErr: false,
		},
		{
			name:      "missing float id",
			mutate:    func(d *FloatDocument) { d.FloatID = "" },
			wantErr:   true,
			wantField: "float_id",
		},
		{
			name:      "bad profile date",
			mutate:    func(d *FloatDocument) { d.Profiles[0].ProfileDate = "15/01/2023" },
			wantErr:   true,
			wantField: "profile_date",
		},
		{
			name:      "latitude out of range",
			mutate:    func(d *FloatDocument) { d.Profiles[1].Latitude = 91 },
			wantErr:   true,
			wantField: "latitude",
		},
		{
			name:      "longitude out of range",
			mutate:    func(d *FloatDocument) { d.Profiles[1].Longitude = -181 },
			wantErr:   true,
			wantField: "longitude",
		},
		{
			name:      "duplicate cycle number",
			mutate:    func(d *FloatDocument) { d.Profiles[1].CycleNumber = 1 },
			wantErr:   true,
			wantField: "cycle_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)

			err := doc.Validate()

			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				vErr, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				if vErr.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
				}
				if vErr.IsTransient() {
					t.Error("validation errors must not be transient")
				}
			}
		})
	}
}

func TestIsUsageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid range", &InvalidRangeError{Field: "date_range", Reason: "too many"}, true},
		{"unsupported comparison", &UnsupportedComparisonError{Kind: "sideways"}, true},
		{"unknown function", &UnknownFunctionError{Function: "divine_the_ocean"}, true},
		{"validation", &ValidationError{Field: "region", Message: "required"}, true},
		{"plain error", errPlain, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUsageError(tt.err); got != tt.want {
				t.Errorf("IsUsageError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

var errPlain = &plainError{}

type plainError struct{}

func (e *plainError) Error() string { return "storage offline" }

func TestQueryRequestAppliedFilters(t *testing.T) {
	req := &QueryRequest{
		Region:     "bay of bengal",
		DateRange:  []string{"2023-01-01", "2023-06-30"},
		DepthRange: []float64{0, 200},
		Parameters: []string{"temp"},
		Operation:  "max",
	}

	filters := req.AppliedFilters()

	if filters.Region != "bay of bengal" {
		t.Errorf("Region = %q", filters.Region)
	}
	if len(filters.DateRange) != 2 || filters.DateRange[0] != "2023-01-01" {
		t.Errorf("DateRange = %v", filters.DateRange)
	}
	if len(filters.DepthRange) != 2 || filters.DepthRange[1] != 200 {
		t.Errorf("DepthRange = %v", filters.DepthRange)
	}
}
