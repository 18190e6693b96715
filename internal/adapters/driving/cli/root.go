// Package cli implements the ocrsc command line interface with cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// verbose is bound to the persistent --verbose flag.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ocrsc",
	Short: "OCR to fine-tuning dataset and extraction tables",
	Long: `ocrsc turns scanned and digital documents into training data.

It extracts text (directly or through OCR), splits it into typed paragraphs,
appends conversation records to a JSONL dataset, renders Markdown/HTML copies
and extracts structured fields (CNPJ, dates, amounts, process numbers) into
CSV or XLSX tables.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output to stderr")
}

// Services holds everything the commands need. Nil fields disable the
// commands that depend on them.
type Services struct {
	Document   driving.DocumentService
	Extraction driving.ExtractionService

	// EnrichedExtraction is the extraction service with AI enrichment, or
	// nil when no LLM is available.
	EnrichedExtraction driving.ExtractionService

	Dataset  driving.DatasetService
	Batch    driving.BatchService
	Settings driving.SettingsService

	DatasetWriter driven.DatasetWriter
	TableWriter   func(format domain.TableFormat) (driven.TableWriter, error)
	Output        domain.OutputSettings
}

var (
	documentService    driving.DocumentService
	extractionService  driving.ExtractionService
	enrichedExtraction driving.ExtractionService
	datasetService     driving.DatasetService
	batchService       driving.BatchService
	settingsService    driving.SettingsService
	datasetWriter      driven.DatasetWriter
	tableWriterFor     func(format domain.TableFormat) (driven.TableWriter, error)
	outputSettings     = domain.DefaultAppSettings().Output
)

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	documentService = s.Document
	extractionService = s.Extraction
	enrichedExtraction = s.EnrichedExtraction
	datasetService = s.Dataset
	batchService = s.Batch
	settingsService = s.Settings
	datasetWriter = s.DatasetWriter
	tableWriterFor = s.TableWriter
	if s.Output.Directory != "" {
		outputSettings = s.Output
	}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command context, which is nil when a command
// is executed without ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
