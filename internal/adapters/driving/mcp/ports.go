package mcp

import (
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Document segments text into paragraphs.
	Document driving.DocumentService

	// Extraction classifies text and extracts fields.
	Extraction driving.ExtractionService

	// Dataset builds and validates conversation records.
	Dataset driving.DatasetService

	// Batch exposes stored batch runs. Optional.
	Batch driving.BatchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	if p.Dataset == nil {
		return ErrMissingDatasetService
	}
	return nil
}
