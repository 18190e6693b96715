package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Enricher         = (*Enricher)(nil)
	_ driven.PromptStoreAware = (*Enricher)(nil)
)

// maxEnrichText is the number of runes of document text sent for enrichment.
const maxEnrichText = 2000

// Enricher asks the chat model for fields the patterns missed.
type Enricher struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewEnricher creates an enricher. prompts may be nil.
func NewEnricher(llm driven.LLMService, prompts driven.PromptStore) *Enricher {
	return &Enricher{llm: llm, prompts: prompts}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *Enricher) SetPromptStore(store driven.PromptStore) {
	e.prompts = store
}

// Enrich returns the JSON object the model replied with.
func (e *Enricher) Enrich(ctx context.Context, text string, fields *domain.ExtractedFieldSet) (map[string]any, error) {
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	known, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode extracted fields: %w", err)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: loadPrompt(e.prompts, driven.PromptEnrichSystem)},
		{Role: "user", Content: fmt.Sprintf(loadPrompt(e.prompts, driven.PromptEnrichUser),
			known, domain.Truncate(text, maxEnrichText))},
	}

	reply, err := e.llm.Chat(ctx, messages, driven.ChatOptions{JSONMode: true})
	if err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}

	var extra map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &extra); err != nil {
		return nil, fmt.Errorf("enrich: decode reply: %w", err)
	}
	return extra, nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON replies.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
