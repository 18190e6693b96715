// Command ocrsc turns documents into fine-tuning datasets and extraction tables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/ai"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/config/file"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/ocr"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/output/jsonl"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/output/render"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/output/table"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/storage/memory"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/storage/sqlite"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/textsource"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driving/cli"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/services"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
	"github.com/leo-dower/ocr-rag-super-charged/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Verbose must be known before cobra parses flags so startup is logged.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cli.SetVersion(version)

	cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer cleanup()

	return cli.Execute(ctx)
}

// wire builds every adapter and service and injects them into the CLI.
// The returned function releases them.
func wire(ctx context.Context) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	logger.Section("Configuration")
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return cleanup, fmt.Errorf("open config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Resolved()
	if err != nil {
		return cleanup, fmt.Errorf("load settings: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())

	patterns, err := file.NewPatternLoader(settings.Extraction.PatternsFile).Load()
	if err != nil {
		return cleanup, fmt.Errorf("load patterns: %w", err)
	}

	logger.Section("OCR")
	sourceOpts := []textsource.Option{
		textsource.WithLanguage(settings.OCR.Language),
		textsource.WithMinTextLength(settings.OCR.MinTextLength),
	}
	engine, err := ocr.NewEngine(ctx, settings.OCR)
	if err != nil {
		logger.Warn("OCR disabled: %v", err)
	} else {
		logger.Info("OCR backend: %s", engine.Name())
		sourceOpts = append(sourceOpts, textsource.WithOCR(engine))
		closers = append(closers, func() { closeWith("OCR engine", engine.Close) })
	}
	source := textsource.New(textsource.DefaultRegistry(), sourceOpts...)

	pipeline, err := postprocessors.BuildPipeline(postprocessors.DefaultRegistry(), settings.Segmentation)
	if err != nil {
		return cleanup, fmt.Errorf("build segmentation pipeline: %w", err)
	}
	logger.Debug("segmentation: %v", pipeline.Names())

	datasetSvc, err := services.NewDatasetService()
	if err != nil {
		return cleanup, err
	}

	logger.Section("AI")
	var enricher driven.Enricher
	var summariser driven.Summariser
	if settings.LLM.IsConfigured() {
		prompts, err := file.NewPromptStore("")
		if err != nil {
			return cleanup, fmt.Errorf("open prompts: %w", err)
		}
		aiResult := ai.Initialise(&settings.LLM, prompts)
		for _, w := range aiResult.Warnings {
			logger.Warn("%s", w)
		}
		closers = append(closers, aiResult.Close)
		enricher = aiResult.Enricher
		summariser = aiResult.Summariser
	} else {
		logger.Info("LLM provider not configured; enrichment and summaries disabled")
	}

	extraction := services.NewExtractionService(patterns)
	var enriched *services.ExtractionService
	if enricher != nil {
		enriched = services.NewExtractionService(patterns, services.WithEnricher(enricher))
	}

	batchExtractor := extraction
	if settings.Extraction.Enrich && enriched != nil {
		batchExtractor = enriched
	}

	logger.Section("Storage")
	var store driven.BatchStore
	sqliteStore, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("batch history kept in memory only: %v", err)
		store = memory.NewBatchStore()
	} else {
		logger.Debug("batches: %s", sqliteStore.Path())
		store = sqliteStore
		closers = append(closers, func() { closeWith("batch store", sqliteStore.Close) })
	}

	datasetWriter := jsonl.New(settings.Output.DatasetPath())
	closers = append(closers, func() { closeWith("dataset", datasetWriter.Close) })

	docOpts := []services.DocumentOption{
		services.WithDatasetWriter(datasetWriter),
		services.WithRenderers(settings.Output.Directory, render.ForSettings(settings.Output)...),
	}
	if summariser != nil {
		docOpts = append(docOpts, services.WithSummariser(summariser, settings.Output.Summary))
	}
	documentSvc := services.NewDocumentService(source, pipeline, datasetSvc, docOpts...)

	svcs := &cli.Services{
		Document:      documentSvc,
		Extraction:    extraction,
		Dataset:       datasetSvc,
		Batch:         services.NewBatchService(source, batchExtractor, services.WithBatchStore(store)),
		Settings:      settingsSvc,
		DatasetWriter: datasetWriter,
		TableWriter:   table.New,
		Output:        settings.Output,
	}
	if enriched != nil {
		svcs.EnrichedExtraction = enriched
	}
	cli.SetServices(svcs)

	return cleanup, nil
}

func closeWith(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("failed to close %s: %v", name, err)
	}
}
