package services

import (
	"context"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/internal/repository"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// FloatService handles float catalog operations
type FloatService struct {
	repo    repository.FloatRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewFloatService creates a new float service
func NewFloatService(repo repository.FloatRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *FloatService {
	return &FloatService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ListFloats retrieves floats with pagination
func (s *FloatService) ListFloats(ctx context.Context, limit, offset int) ([]*models.Float, int, error) {
	return s.repo.ListFloats(ctx, limit, offset)
}

// GetFloat retrieves a single float by ID
func (s *FloatService) GetFloat(ctx context.Context, floatID string) (*models.Float, error) {
	return s.repo.GetFloat(ctx, floatID)
}

// ProfilesByFloat retrieves a float's profiles with pagination
func (s *FloatService) ProfilesByFloat(ctx context.Context, floatID string, limit, offset int) ([]*models.Profile, int, error) {
	return s.repo.ProfilesByFloat(ctx, floatID, limit, offset)
}

// MeasurementsByProfile retrieves a profile's depth samples
func (s *FloatService) MeasurementsByProfile(ctx context.Context, profileID int64) ([]*models.Measurement, error) {
	return s.repo.MeasurementsByProfile(ctx, profileID)
}

// HealthCheck checks data access health
func (s *FloatService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
