package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// fakeFloatRepository records ingested documents without a store
type fakeFloatRepository struct {
	ingested []string
}

func (f *fakeFloatRepository) CreateFloat(ctx context.Context, float *models.Float) error {
	return nil
}

func (f *fakeFloatRepository) GetFloat(ctx context.Context, floatID string) (*models.Float, error) {
	return nil, nil
}

func (f *fakeFloatRepository) ListFloats(ctx context.Context, limit, offset int) ([]*models.Float, int, error) {
	return nil, 0, nil
}

func (f *fakeFloatRepository) ProfilesByFloat(ctx context.Context, floatID string, limit, offset int) ([]*models.Profile, int, error) {
	return nil, 0, nil
}

func (f *fakeFloatRepository) MeasurementsByProfile(ctx context.Context, profileID int64) ([]*models.Measurement, error) {
	return nil, nil
}

func (f *fakeFloatRepository) IngestFloatDocument(ctx context.Context, doc *models.FloatDocument) (int, int, error) {
	f.ingested = append(f.ingested, doc.FloatID)
	return len(doc.Profiles), len(doc.Profiles) * 2, nil
}

func (f *fakeFloatRepository) HealthCheck(ctx context.Context) error {
	return nil
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()

	// One valid float, one broken JSON line, one failing validation,
	// and a blank line that must be skipped silently
	content := `{"float_id":"2902746","project_name":"INCOIS","profiles":[{"cycle_number":1,"profile_date":"2023-01-15","latitude":12.5,"longitude":88.0,"measurements":[{"pressure":10.2,"temp":28.4}]}]}
not json at all

{"float_id":"","profiles":[]}
{"float_id":"2902747","project_name":"INCOIS","profiles":[{"cycle_number":1,"profile_date":"2023-02-01","latitude":15.0,"longitude":65.0,"measurements":[]}]}
`

	if err := os.WriteFile(filepath.Join(dir, "floats.ndjson"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	logger := logging.NewStructuredLogger("ingestion-test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)

	repo := &fakeFloatRepository{}
	svc := NewIngestionService(repo, logger, metrics.NewCollector("ingestion_test"))

	result, err := svc.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("IngestDirectory() error = %v", err)
	}

	if result.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", result.TotalFiles)
	}
	if result.TotalFloats != 4 {
		t.Errorf("TotalFloats = %d, want 4", result.TotalFloats)
	}
	if result.SuccessfulFloats != 2 {
		t.Errorf("SuccessfulFloats = %d, want 2", result.SuccessfulFloats)
	}
	if result.FailedFloats != 2 {
		t.Errorf("FailedFloats = %d, want 2", result.FailedFloats)
	}
	if result.ProfilesWritten != 2 {
		t.Errorf("ProfilesWritten = %d, want 2", result.ProfilesWritten)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", result.Errors)
	}

	want := []string{"2902746", "2902747"}
	if len(repo.ingested) != 2 || repo.ingested[0] != want[0] || repo.ingested[1] != want[1] {
		t.Errorf("ingested = %v, want %v", repo.ingested, want)
	}
}

func TestIngestDirectoryEmpty(t *testing.T) {
	logger := logging.NewStructuredLogger("ingestion-test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)

	svc := NewIngestionService(&fakeFloatRepository{}, logger, metrics.NewCollector("ingestion_test_empty"))

	if _, err := svc.IngestDirectory(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for directory with no data files")
	}
}
