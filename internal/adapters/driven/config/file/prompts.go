package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptEnrichSystem: `Você é um assistente especializado em extração de informações de documentos. Analise o texto fornecido e extraia informações adicionais não capturadas pelos padrões básicos. Forneça dados em formato JSON.`,

	driven.PromptEnrichUser: `Dados já extraídos: %s

Texto do documento: %s

Por favor, forneça informações adicionais relevantes em JSON. Foque em campos não preenchidos que possam ser importantes.`,

	driven.PromptSummarySystem: `Você é um assistente especializado em análise de documentos. Seu objetivo é gerar um sumário conciso e uma tabela de conteúdo detalhada para o documento fornecido. Siga estas diretrizes:

1. Sumário Executivo:
- Máximo de 3-5 parágrafos
- Capture a essência do documento
- Destaque os pontos-chave

2. Tabela de Conteúdo:
- Identifique seções principais e subseções
- Use numeração hierárquica (1, 1.1, 1.2, etc.)
- Forneça breve descrição de cada seção

Responda em formato JSON com as seguintes chaves:
- "summary": Sumário executivo em texto
- "table_of_contents": Tabela de conteúdo detalhada`,

	driven.PromptSummaryUser: `Gere um sumário e tabela de conteúdo para o seguinte documento:

%s`,
}

// DefaultPrompt returns the embedded prompt for name.
func DefaultPrompt(name string) (string, bool) {
	prompt, ok := defaultPrompts[name]
	return prompt, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.ocrsc/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# ocrsc Prompts

This directory contains the prompts sent to the LLM by ocrsc.

## Files

- ` + "`enrich_system.txt`" + ` - System prompt for AI field enrichment
- ` + "`enrich_user.txt`" + ` - Extracted fields (JSON) and document text
- ` + "`summary_system.txt`" + ` - System prompt for summaries and tables of contents
- ` + "`summary_user.txt`" + ` - Document text to summarise

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command. Both the enrichment and summary prompts must still ask for a JSON
object; the summary reply is read from the "summary" and
"table_of_contents" keys.

## Format Placeholders

- ` + "`enrich_user.txt`" + ` takes two ` + "`%s`" + `: fields JSON, then text
- ` + "`summary_user.txt`" + ` takes one ` + "`%s`" + `: the text

Ensure customised prompts keep placeholders in the same order.
`
	return os.WriteFile(path, []byte(content), 0600)
}
