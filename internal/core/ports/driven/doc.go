// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextSource: Turns a file path into text (direct extraction, then OCR)
//   - OCREngine: Recognises text in scanned documents and images
//   - Normaliser: Extracts text from a file's bytes by MIME type
//   - NormaliserRegistry: Selects appropriate normaliser
//   - DatasetWriter: Appends conversation records to the JSONL dataset
//   - TableWriter: Writes batch extraction tables
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Chat model. Without it, enrichment and summaries are disabled.
//   - Enricher: AI field enrichment. Without it, only pattern fields are returned.
//   - Summariser: AI summary and table of contents for rendered documents.
//   - BatchStore: Batch run persistence. Without it, batches are not recorded.
//   - PromptStore: Editable prompt templates. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
