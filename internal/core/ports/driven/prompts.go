package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the built-in
	// default or an error when no default exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptEnrichSystem is the system prompt for field enrichment.
	// This prompt has no format placeholders.
	PromptEnrichSystem = "enrich_system"

	// PromptEnrichUser carries the extracted fields and the document text.
	// The template expects two %s placeholders: fields JSON, then text.
	PromptEnrichUser = "enrich_user"

	// PromptSummarySystem is the system prompt for summaries and tables of contents.
	// This prompt has no format placeholders.
	PromptSummarySystem = "summary_system"

	// PromptSummaryUser carries the document text.
	// The template expects one %s placeholder.
	PromptSummaryUser = "summary_user"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses its built-in prompts.
	SetPromptStore(store PromptStore)
}
