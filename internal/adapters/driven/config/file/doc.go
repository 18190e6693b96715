// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the ocrsc config directory (~/.ocrsc).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable LLM prompts
//   - PatternLoader: YAML pattern table overrides
package file
