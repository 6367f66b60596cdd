package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/infrastructure/config"
	"github.com/4adex/hilabs/internal/infrastructure/dataset"
	"github.com/4adex/hilabs/internal/infrastructure/telemetry"
	"github.com/4adex/hilabs/internal/metrics"
	"github.com/4adex/hilabs/internal/service/outlier"
	"github.com/4adex/hilabs/internal/service/pipeline"
)

// Command-line flags
var (
	configPath    = flag.String("config", "", "Path to configuration file (optional)")
	inputDir      = flag.String("input", "", "Override input directory")
	outputDir     = flag.String("output", "", "Override output directory")
	outlierPolicy = flag.String("outlier-policy", "", "Override outlier policy: flag or drop")
	dryRun        = flag.Bool("dry-run", false, "Run the pipeline without publishing artifacts")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func applyFlagOverrides(cfg *config.Config) {
	if *inputDir != "" {
		cfg.Input.Dir = *inputDir
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *outlierPolicy != "" {
		cfg.Engine.Outlier.Policy = outlier.Policy(*outlierPolicy)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	reg := metrics.NewRegistry()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	loader := dataset.NewLoader(logger.Named("loader"))

	rows, err := loader.LoadRoster(filepath.Join(cfg.Input.Dir, cfg.Input.RosterFile))
	if err != nil {
		return err
	}
	caTable, err := loader.LoadLicenseTable(filepath.Join(cfg.Input.Dir, cfg.Input.CAFile), "CA")
	if err != nil {
		return err
	}
	nyTable, err := loader.LoadLicenseTable(filepath.Join(cfg.Input.Dir, cfg.Input.NYFile), "NY")
	if err != nil {
		return err
	}
	registry, err := loader.LoadNPITable(filepath.Join(cfg.Input.Dir, cfg.Input.NPIFile))
	if err != nil {
		return err
	}

	engine := pipeline.NewEngine(cfg.Engine, time.Now().UTC(), reg, logger)
	outcome, err := engine.Run(ctx, pipeline.Datasets{
		Roster: rows,
		Licenses: map[string]*roster.LicenseTable{
			"CA": caTable,
			"NY": nyTable,
		},
		Registry: registry,
	})
	if err != nil {
		return err
	}

	if *dryRun {
		logger.Info("dry run: skipping artifact publication",
			zap.String("run_id", outcome.Summary.RunID),
			zap.Int("final_records", outcome.Summary.FinalRecords),
			zap.Int("clusters", outcome.Summary.Clusters),
			zap.Float64("data_quality_score", outcome.Summary.DataQualityScore),
		)
		return nil
	}

	writer := dataset.NewWriter(logger.Named("writer"))
	if err := writer.WriteFinal(filepath.Join(cfg.Output.Dir, cfg.Output.FinalFile), outcome.Final); err != nil {
		return err
	}
	if err := writer.WriteClusters(filepath.Join(cfg.Output.Dir, cfg.Output.ClusterFile),
		outcome.Clusters, outcome.Records, cfg.Engine.DuplicateThreshold); err != nil {
		return err
	}
	if err := writer.WriteSummary(filepath.Join(cfg.Output.Dir, cfg.Output.SummaryFile), outcome.Summary); err != nil {
		return err
	}

	logger.Info("run artifacts published",
		zap.String("run_id", outcome.Summary.RunID),
		zap.String("output_dir", cfg.Output.Dir),
		zap.Float64("data_quality_score", outcome.Summary.DataQualityScore),
		zap.String("quality_grade", outcome.Summary.QualityGrade),
	)
	return nil
}
