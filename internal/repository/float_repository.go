package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/pkg/database"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// FloatRepository provides data access for ARGO float data
type FloatRepository interface {
	// Float operations
	CreateFloat(ctx context.Context, float *models.Float) error
	GetFloat(ctx context.Context, floatID string) (*models.Float, error)
	ListFloats(ctx context.Context, limit, offset int) ([]*models.Float, int, error)

	// Profile operations
	ProfilesByFloat(ctx context.Context, floatID string, limit, offset int) ([]*models.Profile, int, error)
	MeasurementsByProfile(ctx context.Context, profileID int64) ([]*models.Measurement, error)

	// Ingestion operations
	IngestFloatDocument(ctx context.Context, doc *models.FloatDocument) (int, int, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// floatRepository implements FloatRepository
type floatRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewFloatRepository creates a new float repository
func NewFloatRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) FloatRepository {
	return &floatRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateFloat creates a new float record
func (r *floatRepository) CreateFloat(ctx context.Context, float *models.Float) error {
	query := `
		INSERT INTO floats (float_id, project_name, wmo_inst_type, sensors_list, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (float_id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			wmo_inst_type = EXCLUDED.wmo_inst_type,
			sensors_list = EXCLUDED.sensors_list
	`

	_, err := r.db.ExecContext(ctx, "insert_float", query,
		float.FloatID,
		float.ProjectName,
		float.WMOInstType,
		float.SensorsList,
		float.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create float: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_CREATE_FLOAT] Float created", logging.Fields{
		"float_id":     float.FloatID,
		"project_name": float.ProjectName,
	})

	return nil
}

// GetFloat retrieves a float by ID
func (r *floatRepository) GetFloat(ctx context.Context, floatID string) (*models.Float, error) {
	query := `
		SELECT float_id, project_name, wmo_inst_type, sensors_list, created_at
		FROM floats
		WHERE float_id = $1
	`

	var float models.Float
	err := r.db.GetContext(ctx, "get_float", &float, query, floatID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "float",
			ID:       floatID,
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get float: %w", err)
	}

	return &float, nil
}

// ListFloats retrieves floats with pagination
func (r *floatRepository) ListFloats(ctx context.Context, limit, offset int) ([]*models.Float, int, error) {
	var totalCount int
	err := r.db.GetContext(ctx, "count_floats", &totalCount, "SELECT COUNT(*) FROM floats")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count floats: %w", err)
	}

	query := `
		SELECT float_id, project_name, wmo_inst_type, sensors_list, created_at
		FROM floats
		ORDER BY float_id
		LIMIT $1 OFFSET $2
	`

	var floats []*models.Float
	err = r.db.SelectContext(ctx, "list_floats", &floats, query, limit, offset)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list floats: %w", err)
	}

	return floats, totalCount, nil
}

// ProfilesByFloat retrieves a float's profiles with pagination, newest first
func (r *floatRepository) ProfilesByFloat(ctx context.Context, floatID string, limit, offset int) ([]*models.Profile, int, error) {
	// A missing float yields a not-found error rather than an empty page
	if _, err := r.GetFloat(ctx, floatID); err != nil {
		return nil, 0, err
	}

	var totalCount int
	err := r.db.GetContext(ctx, "count_profiles", &totalCount,
		"SELECT COUNT(*) FROM profiles WHERE float_id = $1", floatID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `
		SELECT id, float_id, cycle_number,
		       to_char(profile_date, 'YYYY-MM-DD') AS profile_date,
		       latitude, longitude
		FROM profiles
		WHERE float_id = $1
		ORDER BY profile_date DESC, cycle_number DESC
		LIMIT $2 OFFSET $3
	`

	var profiles []*models.Profile
	err = r.db.SelectContext(ctx, "profiles_by_float", &profiles, query, floatID, limit, offset)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to get profiles: %w", err)
	}

	return profiles, totalCount, nil
}

// MeasurementsByProfile retrieves a profile's depth samples, shallowest first
func (r *floatRepository) MeasurementsByProfile(ctx context.Context, profileID int64) ([]*models.Measurement, error) {
	var exists bool
	err := r.db.GetContext(ctx, "profile_exists", &exists,
		"SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)", profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if !exists {
		return nil, &NotFoundError{
			Resource: "profile",
			ID:       fmt.Sprintf("%d", profileID),
		}
	}

	query := `
		SELECT profile_id, pressure, temp, psal, doxy, chla, nitrate, bbp700, ph
		FROM measurements
		WHERE profile_id = $1
		ORDER BY pressure ASC
	`

	var measurements []*models.Measurement
	err = r.db.SelectContext(ctx, "measurements_by_profile", &measurements, query, profileID)

	if err != nil {
		return nil, fmt.Errorf("failed to get measurements: %w", err)
	}

	return measurements, nil
}

// IngestFloatDocument writes a float document and its nested profiles and
// measurements in a single transaction. Re-ingesting the same document
// replaces the float's profiles idempotently. Returns the profile and
// measurement counts written.
func (r *floatRepository) IngestFloatDocument(ctx context.Context, doc *models.FloatDocument) (int, int, error) {
	timer := time.Now()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO floats (float_id, project_name, wmo_inst_type, sensors_list, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (float_id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			wmo_inst_type = EXCLUDED.wmo_inst_type,
			sensors_list = EXCLUDED.sensors_list
	`, doc.FloatID, doc.ProjectName, doc.WMOInstType, doc.SensorsList, time.Now().UTC())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to upsert float: %w", err)
	}

	profileStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profiles (float_id, cycle_number, profile_date, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (float_id, cycle_number) DO UPDATE SET
			profile_date = EXCLUDED.profile_date,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude
		RETURNING id
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare profile statement: %w", err)
	}
	defer profileStmt.Close()

	measurementStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements (profile_id, pressure, temp, psal, doxy, chla, nitrate, bbp700, ph)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (profile_id, pressure) DO UPDATE SET
			temp = EXCLUDED.temp,
			psal = EXCLUDED.psal,
			doxy = EXCLUDED.doxy,
			chla = EXCLUDED.chla,
			nitrate = EXCLUDED.nitrate,
			bbp700 = EXCLUDED.bbp700,
			ph = EXCLUDED.ph
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare measurement statement: %w", err)
	}
	defer measurementStmt.Close()

	profileCount := 0
	measurementCount := 0

	for _, profile := range doc.Profiles {
		var profileID int64
		err := profileStmt.QueryRowContext(ctx,
			doc.FloatID,
			profile.CycleNumber,
			profile.ProfileDate,
			profile.Latitude,
			profile.Longitude,
		).Scan(&profileID)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert profile cycle %d: %w", profile.CycleNumber, err)
		}
		profileCount++

		// Replace the profile's samples so re-ingestion never leaves
		// stale depths behind
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM measurements WHERE profile_id = $1", profileID); err != nil {
			return 0, 0, fmt.Errorf("failed to clear measurements: %w", err)
		}

		for _, m := range profile.Measurements {
			_, err := measurementStmt.ExecContext(ctx,
				profileID,
				m.Pressure,
				m.Temp,
				m.Psal,
				m.Doxy,
				m.Chla,
				m.Nitrate,
				m.Bbp700,
				m.PH,
			)
			if err != nil {
				return 0, 0, fmt.Errorf("failed to insert measurement: %w", err)
			}
			measurementCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.IngestionRecordsTotal.Add(float64(measurementCount))
	r.metrics.IngestionBatchSize.Observe(float64(measurementCount))

	r.logger.Debug(ctx, "[REPO_INGEST_FLOAT] Float document ingested", logging.Fields{
		"float_id":     doc.FloatID,
		"profiles":     profileCount,
		"measurements": measurementCount,
		"duration_ms":  time.Since(timer).Milliseconds(),
	})

	return profileCount, measurementCount, nil
}

// HealthCheck performs a repository health check
func (r *floatRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
