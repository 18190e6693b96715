// Package mcp provides an MCP (Model Context Protocol) server adapter for ocrsc.
// It lets AI assistants segment text, classify documents, extract fields and
// build dataset records, and browse stored batch runs.
package mcp

import "errors"

// Errors returned when a required service is not provided.
var (
	ErrMissingDocumentService   = errors.New("mcp: document service is required")
	ErrMissingExtractionService = errors.New("mcp: extraction service is required")
	ErrMissingDatasetService    = errors.New("mcp: dataset service is required")
)
