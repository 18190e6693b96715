package domain

import "time"

// MinTextLength is the trimmed length above which directly extracted
// text is used instead of OCR.
const MinTextLength = 50

// DefaultOCRLanguage is the default recognition language.
const DefaultOCRLanguage = "por"

// OCRBackend identifies an OCR engine implementation.
type OCRBackend string

// Available OCR backends.
const (
	// OCRBackendLocal runs Tesseract on the local machine.
	OCRBackendLocal OCRBackend = "local"

	// OCRBackendMistral calls the Mistral OCR API.
	OCRBackendMistral OCRBackend = "mistral"

	// OCRBackendDocumentAI calls Google Document AI.
	OCRBackendDocumentAI OCRBackend = "documentai"
)

// IsValid returns true if the backend is recognised.
func (b OCRBackend) IsValid() bool {
	switch b {
	case OCRBackendLocal, OCRBackendMistral, OCRBackendDocumentAI:
		return true
	default:
		return false
	}
}

// IsRemote returns true if the backend calls a network service.
func (b OCRBackend) IsRemote() bool {
	return b == OCRBackendMistral || b == OCRBackendDocumentAI
}

// String returns the string representation.
func (b OCRBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b OCRBackend) Description() string {
	switch b {
	case OCRBackendLocal:
		return "Tesseract (local)"
	case OCRBackendMistral:
		return "Mistral OCR (cloud)"
	case OCRBackendDocumentAI:
		return "Google Document AI (cloud)"
	default:
		return unknownDescription
	}
}

// AllOCRBackends returns all available OCR backends.
func AllOCRBackends() []OCRBackend {
	return []OCRBackend{OCRBackendLocal, OCRBackendMistral, OCRBackendDocumentAI}
}

// SupportedLanguages maps Tesseract language codes to language names.
func SupportedLanguages() map[string]string {
	return map[string]string{
		"por": "portuguese",
		"eng": "english",
		"spa": "spanish",
		"fra": "french",
		"deu": "german",
	}
}

// LanguageName returns the language name for a code.
func LanguageName(code string) (string, bool) {
	name, ok := SupportedLanguages()[code]
	return name, ok
}

// OCRUsage is the resource usage of one recognition call.
type OCRUsage struct {
	Calls          int
	PagesProcessed int
	Duration       time.Duration
}

// OCRResult is the text recognised from one document.
type OCRResult struct {
	Text    string
	Pages   int
	Backend OCRBackend
	Usage   OCRUsage
}
