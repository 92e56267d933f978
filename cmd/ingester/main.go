package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/VamP08/FloatChat/internal/config"
	"github.com/VamP08/FloatChat/internal/repository"
	"github.com/VamP08/FloatChat/internal/services"
	"github.com/VamP08/FloatChat/pkg/database"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

func main() {
	// Parse command-line flags
	dataDir := flag.String("data-dir", "./argo_data", "Directory containing float NDJSON export files")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("floatchat-ingester", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[INGESTER_START] Starting float data ingestion", logging.Fields{
		"version":  "1.0.0",
		"data_dir": *dataDir,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("floatchat_ingester")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[INGESTER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository and service
	floatRepo := repository.NewFloatRepository(db, logger, metricsCollector)
	ingestionService := services.NewIngestionService(floatRepo, logger, metricsCollector)

	// Ingest data
	result, err := ingestionService.IngestDirectory(ctx, *dataDir)
	if err != nil {
		logger.Fatal(ctx, "[INGESTION_ERROR] Ingestion failed", logging.Fields{
			"error": err.Error(),
		}, err)
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("INGESTION COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Total Files:       %d\n", result.TotalFiles)
	fmt.Printf("Total Floats:      %d\n", result.TotalFloats)
	fmt.Printf("Successful Floats: %d\n", result.SuccessfulFloats)
	fmt.Printf("Failed Floats:     %d\n", result.FailedFloats)
	fmt.Printf("Profiles Written:  %d\n", result.ProfilesWritten)
	fmt.Printf("Samples Written:   %d\n", result.SamplesWritten)
	fmt.Printf("Duration:          %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for i, errMsg := range result.Errors {
			if i < 10 {
				fmt.Printf("  - %s\n", errMsg)
			}
		}
		if len(result.Errors) > 10 {
			fmt.Printf("  ... and %d more errors\n", len(result.Errors)-10)
		}
	}

	logger.Info(ctx, "[INGESTER_COMPLETE] Ingestion completed successfully", logging.Fields{
		"total_floats":      result.TotalFloats,
		"successful_floats": result.SuccessfulFloats,
		"failed_floats":     result.FailedFloats,
		"profiles_written":  result.ProfilesWritten,
		"samples_written":   result.SamplesWritten,
		"duration_seconds":  result.Duration.Seconds(),
	})
}
