package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// TextInput is the input schema for tools that take raw text.
type TextInput struct {
	Text string `json:"text" jsonschema:"the document text, typically OCR output"`
}

// ParagraphOutput is one typed paragraph.
type ParagraphOutput struct {
	Text string `json:"text"`
	Kind string `json:"kind" jsonschema:"heading, article, emphasis or normal"`
}

// SegmentOutput is the output schema for the segment_text tool.
type SegmentOutput struct {
	Paragraphs []ParagraphOutput `json:"paragraphs"`
	Count      int               `json:"count"`
}

// ClassifyOutput is the output schema for the classify_text tool.
type ClassifyOutput struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// ExtractInput is the input schema for the extract_fields tool.
type ExtractInput struct {
	Text string `json:"text" jsonschema:"the document text"`
	Type string `json:"type,omitempty" jsonschema:"document type hint: juridico, fiscal, bancario or nao_identificado; classified when empty"`
}

// ExtractOutput is the output schema for the extract_fields tool.
type ExtractOutput struct {
	Type   string            `json:"type"`
	Label  string            `json:"label"`
	Keys   []string          `json:"keys"`
	Fields map[string]string `json:"fields"`
}

// BuildRecordInput is the input schema for the build_record tool.
type BuildRecordInput struct {
	Text       string            `json:"text" jsonschema:"the document text used as the user turn"`
	Paragraphs []ParagraphOutput `json:"paragraphs,omitempty" jsonschema:"paragraphs for the assistant turn; segmented from text when empty"`
}

// TurnOutput is one conversation turn.
type TurnOutput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildRecordOutput is the output schema for the build_record tool.
type BuildRecordOutput struct {
	Messages []TurnOutput `json:"messages,omitempty"`
	Built    bool         `json:"built" jsonschema:"false when no paragraph had content"`
	Valid    bool         `json:"valid"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "segment_text",
		Description: "Split OCR text into typed paragraphs (heading, article, emphasis, normal)",
	}, s.handleSegment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_text",
		Description: "Classify text as a legal, fiscal or banking document",
	}, s.handleClassify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_fields",
		Description: "Extract structured fields (CNPJ, dates, amounts, process numbers) from document text",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "build_record",
		Description: "Build a fine-tuning conversation record from document text and check that it validates",
	}, s.handleBuildRecord)
}

func (s *Server) handleSegment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TextInput,
) (*mcp.CallToolResult, SegmentOutput, error) {
	paragraphs, err := s.ports.Document.Segment(ctx, input.Text)
	if err != nil {
		return nil, SegmentOutput{}, fmt.Errorf("segmenting text: %w", err)
	}

	output := SegmentOutput{
		Paragraphs: make([]ParagraphOutput, len(paragraphs)),
		Count:      len(paragraphs),
	}
	for i, p := range paragraphs {
		output.Paragraphs[i] = ParagraphOutput{Text: p.Text, Kind: p.Kind.String()}
	}
	return nil, output, nil
}

func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TextInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	t := s.ports.Extraction.Classify(input.Text)
	return nil, ClassifyOutput{Type: t.String(), Label: t.Label()}, nil
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	var hint domain.DocumentType
	if input.Type != "" {
		t, ok := domain.ParseDocumentType(input.Type)
		if !ok {
			return nil, ExtractOutput{}, fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidInput, input.Type)
		}
		hint = t
	}

	fields := s.ports.Extraction.Extract(ctx, input.Text, hint)
	return nil, ExtractOutput{
		Type:   fields.DocumentType.String(),
		Label:  fields.DocumentType.Label(),
		Keys:   fields.Keys(),
		Fields: fields.Strings(),
	}, nil
}

func (s *Server) handleBuildRecord(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildRecordInput,
) (*mcp.CallToolResult, BuildRecordOutput, error) {
	var paragraphs []domain.Paragraph
	if len(input.Paragraphs) > 0 {
		paragraphs = make([]domain.Paragraph, len(input.Paragraphs))
		for i, p := range input.Paragraphs {
			kind := domain.ParagraphKind(p.Kind)
			if !kind.IsValid() {
				kind = domain.ParagraphNormal
			}
			paragraphs[i] = domain.Paragraph{Text: p.Text, Kind: kind}
		}
	} else {
		var err error
		paragraphs, err = s.ports.Document.Segment(ctx, input.Text)
		if err != nil {
			return nil, BuildRecordOutput{}, fmt.Errorf("segmenting text: %w", err)
		}
	}

	record, ok := s.ports.Dataset.BuildRecord(input.Text, paragraphs)
	if !ok {
		return nil, BuildRecordOutput{}, nil
	}

	output := BuildRecordOutput{
		Messages: make([]TurnOutput, len(record.Messages)),
		Built:    true,
		Valid:    s.ports.Dataset.ValidateRecord(record),
	}
	for i, m := range record.Messages {
		output.Messages[i] = TurnOutput{Role: string(m.Role), Content: m.Content}
	}
	return nil, output, nil
}
