package ai

import (
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/config/file"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// loadPrompt loads a prompt from the store, falling back to the built-in default.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		prompt, err := store.Load(name)
		if err == nil {
			return prompt
		}
		logger.Warn("prompt %s: %v, using built-in default", name, err)
	}
	prompt, _ := file.DefaultPrompt(name)
	return prompt
}
