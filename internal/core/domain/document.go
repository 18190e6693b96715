package domain

import "time"

// Document is a source file after text extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before segmentation.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the text was extracted.
	CreatedAt time.Time
}

// FileOutcome is the result of running the document pipeline on one file.
type FileOutcome struct {
	// Path is the processed file.
	Path string

	// Paragraphs is the number of paragraphs produced.
	Paragraphs int

	// RecordWritten is true when a valid record was appended to the dataset.
	RecordWritten bool

	// Outputs lists the rendered files.
	Outputs []string

	// Err is set when the file failed.
	Err error
}

// OK returns true if the file was processed without error.
func (o FileOutcome) OK() bool {
	return o.Err == nil
}
