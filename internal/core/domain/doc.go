// Package domain defines the core business entities for ocrsc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Paragraph: A typed block of extracted text
//   - ConversationRecord: A user/assistant training record for the dataset file
//   - DocumentType: The closed set of document categories used for extraction
//   - ExtractedFieldSet: Fields pulled from one document
//   - BatchResult: Rows produced by a batch extraction run
//   - Document / RawDocument: Text sources before and after normalisation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
