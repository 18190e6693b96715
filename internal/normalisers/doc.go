// Package normalisers provides implementations of the Normaliser interface
// for various document formats. Each normaliser knows how to extract text
// content from a specific MIME type, keeping paragraph breaks as blank
// lines so the segmenter can split on them.
//
// Normalisers are registered with a Registry at startup.
package normalisers
