package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/internal/repository"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// IngestionService loads ARGO float NDJSON exports into the store
type IngestionService struct {
	repo    repository.FloatRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// IngestionResult contains ingestion statistics
type IngestionResult struct {
	TotalFiles        int
	TotalFloats       int
	SuccessfulFloats  int
	FailedFloats      int
	ProfilesWritten   int
	SamplesWritten    int
	Duration          time.Duration
	Errors            []string
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(repo repository.FloatRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *IngestionService {
	return &IngestionService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// IngestDirectory ingests all float export files from a directory.
// Each file holds one float document per line.
func (s *IngestionService) IngestDirectory(ctx context.Context, dataDir string) (*IngestionResult, error) {
	startTime := time.Now()

	s.logger.Info(ctx, "[INGEST_START] Starting float data ingestion", logging.Fields{
		"data_dir": dataDir,
		"stage":    "INITIALIZATION",
	})

	result := &IngestionResult{
		Errors: make([]string, 0),
	}

	files, err := filepath.Glob(filepath.Join(dataDir, "*.ndjson"))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found in %s", dataDir)
	}

	result.TotalFiles = len(files)

	s.logger.Info(ctx, "[INGEST_FILES] Found data files", logging.Fields{
		"file_count": len(files),
		"stage":      "FILE_DISCOVERY",
	})

	for _, filePath := range files {
		if err := s.ingestFile(ctx, filePath, result); err != nil {
			errMsg := fmt.Sprintf("failed to ingest %s: %v", filePath, err)
			result.Errors = append(result.Errors, errMsg)
			s.logger.Error(ctx, "[INGEST_FILE_ERROR] File ingestion failed", logging.Fields{
				"file_path": filePath,
				"stage":     "FILE_PROCESSING",
			}, err)
			s.metrics.RecordIngestionError("file_error")
		}
	}

	result.Duration = time.Since(startTime)
	s.metrics.IngestionDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[INGEST_COMPLETE] Float data ingestion completed", logging.Fields{
		"total_files":       result.TotalFiles,
		"total_floats":      result.TotalFloats,
		"successful_floats": result.SuccessfulFloats,
		"failed_floats":     result.FailedFloats,
		"profiles_written":  result.ProfilesWritten,
		"samples_written":   result.SamplesWritten,
		"duration_seconds":  result.Duration.Seconds(),
		"error_count":       len(result.Errors),
		"stage":             "COMPLETE",
	})

	return result, nil
}

// ingestFile ingests a single NDJSON export file. Bad lines are counted
// and skipped; a bad line never aborts the rest of the file.
func (s *IngestionService) ingestFile(ctx context.Context, filePath string, result *IngestionResult) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Float documents carry full profile sets; the default line limit
	// is too small for deep BGC floats
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		result.TotalFloats++

		var doc models.FloatDocument
		if err := json.Unmarshal(line, &doc); err != nil {
			result.FailedFloats++
			result.Errors = append(result.Errors, fmt.Sprintf("%s:%d: invalid JSON: %v", filepath.Base(filePath), lineNo, err))
			s.metrics.RecordIngestionError("parse_error")
			continue
		}

		if err := doc.Validate(); err != nil {
			result.FailedFloats++
			result.Errors = append(result.Errors, fmt.Sprintf("%s:%d: %v", filepath.Base(filePath), lineNo, err))
			s.metrics.RecordIngestionError("validation_error")
			continue
		}

		profiles, samples, err := s.repo.IngestFloatDocument(ctx, &doc)
		if err != nil {
			result.FailedFloats++
			result.Errors = append(result.Errors, fmt.Sprintf("%s:%d: %v", filepath.Base(filePath), lineNo, err))
			s.metrics.RecordIngestionError("write_error")
			continue
		}

		result.SuccessfulFloats++
		result.ProfilesWritten += profiles
		result.SamplesWritten += samples
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	s.logger.Info(ctx, "[INGEST_FILE_SUCCESS] File ingested", logging.Fields{
		"file_path": filePath,
		"lines":     lineNo,
		"stage":     "FILE_COMPLETE",
	})

	return nil
}
