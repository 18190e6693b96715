package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Summariser       = (*Summariser)(nil)
	_ driven.PromptStoreAware = (*Summariser)(nil)
)

// maxSummaryText is the number of runes of document text sent for summaries.
const maxSummaryText = 15000

// Summariser generates an executive summary and table of contents.
type Summariser struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewSummariser creates a summariser. prompts may be nil.
func NewSummariser(llm driven.LLMService, prompts driven.PromptStore) *Summariser {
	return &Summariser{llm: llm, prompts: prompts}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *Summariser) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// summaryReply accepts any JSON shape for the table of contents; models
// return it as text, a list or a nested object.
type summaryReply struct {
	Summary         string          `json:"summary"`
	TableOfContents json.RawMessage `json:"table_of_contents"`
}

// Summarise returns the summary for the document text.
func (s *Summariser) Summarise(ctx context.Context, text string) (*domain.DocumentSummary, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: loadPrompt(s.prompts, driven.PromptSummarySystem)},
		{Role: "user", Content: fmt.Sprintf(loadPrompt(s.prompts, driven.PromptSummaryUser),
			domain.Truncate(text, maxSummaryText))},
	}

	content, err := s.llm.Chat(ctx, messages, driven.ChatOptions{JSONMode: true})
	if err != nil {
		return nil, fmt.Errorf("summarise: %w", err)
	}

	var reply summaryReply
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &reply); err != nil {
		return nil, fmt.Errorf("summarise: decode reply: %w", err)
	}

	toc, err := tableOfContents(reply.TableOfContents)
	if err != nil {
		return nil, fmt.Errorf("summarise: table of contents: %w", err)
	}
	return &domain.DocumentSummary{Summary: reply.Summary, TableOfContents: toc}, nil
}

// tableOfContents returns string values as they are and re-encodes any other
// JSON value as indented text.
func tableOfContents(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
