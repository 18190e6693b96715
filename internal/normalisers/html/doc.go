// Package html provides a Normaliser implementation for HTML documents.
// It walks the parsed node tree, emitting one block per block-level
// element and skipping scripts, styles and the document head.
package html
