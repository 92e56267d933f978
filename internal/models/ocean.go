package models

import (
	"time"
)

// Float represents a physical ARGO sensing unit
type Float struct {
	FloatID     string    `json:"float_id" db:"float_id"`
	ProjectName string    `json:"project_name" db:"project_name"`
	WMOInstType string    `json:"wmo_inst_type" db:"wmo_inst_type"`
	SensorsList string    `json:"sensors_list" db:"sensors_list"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Profile represents a single float surfacing event.
// (float_id, cycle_number) is unique; the date is an ISO calendar date.
type Profile struct {
	ID          int64   `json:"id" db:"id"`
	FloatID     string  `json:"float_id" db:"float_id"`
	CycleNumber int     `json:"cycle_number" db:"cycle_number"`
	ProfileDate string  `json:"profile_date" db:"profile_date"`
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
}

// Measurement represents one depth sample belonging to a profile.
// Pressure in decibars is the depth proxy; any channel may be absent
// when the float carries no such sensor.
type Measurement struct {
	ProfileID int64    `json:"profile_id" db:"profile_id"`
	Pressure  float64  `json:"pressure" db:"pressure"`
	Temp      *float64 `json:"temp,omitempty" db:"temp"`
	Psal      *float64 `json:"psal,omitempty" db:"psal"`
	Doxy      *float64 `json:"doxy,omitempty" db:"doxy"`
	Chla      *float64 `json:"chla,omitempty" db:"chla"`
	Nitrate   *float64 `json:"nitrate,omitempty" db:"nitrate"`
	Bbp700    *float64 `json:"bbp700,omitempty" db:"bbp700"`
	PH        *float64 `json:"ph,omitempty" db:"ph"`
}

// FloatDocument is one line of an ARGO float NDJSON export,
// carrying the float with its nested profiles and measurements.
type FloatDocument struct {
	FloatID     string            `json:"float_id"`
	ProjectName string            `json:"project_name"`
	WMOInstType string            `json:"wmo_inst_type"`
	SensorsList string            `json:"sensors_list"`
	Profiles    []ProfileDocument `json:"profiles"`
}

// ProfileDocument is a nested profile within a FloatDocument
type ProfileDocument struct {
	CycleNumber  int                   `json:"cycle_number"`
	ProfileDate  string                `json:"profile_date"`
	Latitude     float64               `json:"latitude"`
	Longitude    float64               `json:"longitude"`
	Measurements []MeasurementDocument `json:"measurements"`
}

// MeasurementDocument is a nested depth sample within a ProfileDocument
type MeasurementDocument struct {
	Pressure float64  `json:"pressure"`
	Temp     *float64 `json:"temp"`
	Psal     *float64 `json:"psal"`
	Doxy     *float64 `json:"doxy"`
	Chla     *float64 `json:"chla"`
	Nitrate  *float64 `json:"nitrate"`
	Bbp700   *float64 `json:"bbp700"`
	PH       *float64 `json:"ph"`
}

// Validate checks a float document before ingestion
func (d *FloatDocument) Validate() error {
	if d.FloatID == "" {
		return &ValidationError{
			Field:   "float_id",
			Value:   "",
			Message: "float_id is required",
		}
	}

	seenCycles := make(map[int]bool, len(d.Profiles))
	for _, p := range d.Profiles {
		if _, err := time.Parse("2006-01-02", p.ProfileDate); err != nil {
			return &ValidationError{
				Field:   "profile_date",
				Value:   p.ProfileDate,
				Message: "invalid profile date, expected YYYY-MM-DD",
			}
		}

		if p.Latitude < -90 || p.Latitude > 90 {
			return &ValidationError{
				Field:   "latitude",
				Message: "latitude out of range [-90, 90]",
			}
		}

		if p.Longitude < -180 || p.Longitude > 180 {
			return &ValidationError{
				Field:   "longitude",
				Message: "longitude out of range [-180, 180]",
			}
		}

		if seenCycles[p.CycleNumber] {
			return &ValidationError{
				Field:   "cycle_number",
				Message: "duplicate cycle number within float document",
			}
		}
		seenCycles[p.CycleNumber] = true
	}

	return nil
}

// ValidationError represents a data validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}
