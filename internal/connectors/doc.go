// Package connectors provides the document inputs that feed the pipeline
// besides explicit file arguments.
//
// The filesystem connector watches an inbox directory and reports supported
// files as they arrive.
package connectors
