package domain

// RawDocument is a file's bytes before text extraction.
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains file-level key-value pairs.
	Metadata map[string]any
}
