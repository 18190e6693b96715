package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// uriScheme is the custom URI scheme for ocrsc resources.
const uriScheme = "ocrsc://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "batches",
		Name:        "batches",
		Description: "Stored batch extraction runs, newest first",
		MIMEType:    "application/json",
	}, s.handleBatchesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "batches/{batchId}",
		Name:        "batch",
		Description: "Extraction table and failures of a stored batch run",
		MIMEType:    "application/json",
	}, s.handleBatchResource)
}

type batchInfo struct {
	ID          string `json:"id"`
	Documents   int    `json:"documents"`
	Failures    int    `json:"failures"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type failureInfo struct {
	Path  string `json:"path"`
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type batchDetail struct {
	batchInfo
	Columns []string      `json:"columns"`
	Rows    [][]string    `json:"rows"`
	Skipped []failureInfo `json:"skipped"`
}

func newBatchInfo(sum domain.BatchSummary) batchInfo {
	info := batchInfo{
		ID:        sum.ID,
		Documents: sum.Documents,
		Failures:  sum.Failures,
		StartedAt: sum.StartedAt.Format(time.RFC3339),
	}
	if !sum.CompletedAt.IsZero() {
		info.CompletedAt = sum.CompletedAt.Format(time.RFC3339)
	}
	return info
}

// handleBatchesResource lists stored batch runs.
func (s *Server) handleBatchesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Batch == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	summaries, err := s.ports.Batch.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}

	infos := make([]batchInfo, len(summaries))
	for i, sum := range summaries {
		infos[i] = newBatchInfo(sum)
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling batches: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleBatchResource returns one batch run as a table.
func (s *Server) handleBatchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Batch == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractBatchID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Batch.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting batch: %w", err)
	}

	detail := batchDetail{
		batchInfo: newBatchInfo(result.Summary()),
		Columns:   result.Columns(),
		Rows:      result.Table(),
		Skipped:   make([]failureInfo, len(result.Failures)),
	}
	for i, f := range result.Failures {
		detail.Skipped[i] = failureInfo{Path: f.Path, Error: f.Error, Kind: f.Kind.String()}
	}

	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling batch: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractBatchID extracts the batch ID from a URI like ocrsc://batches/{batchId}.
func extractBatchID(uri string) string {
	const prefix = uriScheme + "batches/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
