package ai

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// mockLLM records the last request and replies with a fixed string.
type mockLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	closed   bool
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error {
	m.closed = true
	return nil
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errNoPrompt
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}
