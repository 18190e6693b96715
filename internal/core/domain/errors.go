package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file or MIME type no text source can read.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (enrichment, summaries) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrOCRUnavailable indicates the configured OCR engine cannot be used.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")

	// ErrNotPDF indicates a file with a PDF extension lacks the %PDF header.
	ErrNotPDF = errors.New("not a PDF document")

	// ErrTextTooShort indicates extraction produced less text than the configured minimum.
	ErrTextTooShort = errors.New("extracted text too short")

	// ErrInvalidRecord indicates a conversation record failed validation.
	ErrInvalidRecord = errors.New("invalid conversation record")

	// ErrRateLimited indicates a remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
