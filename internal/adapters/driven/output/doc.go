// Package output holds the file writers of the pipeline.
//
// Subpackages:
//   - jsonl: the append-only conversation dataset
//   - table: batch extraction tables (CSV, XLSX)
//   - render: per-document paragraph renderings (Markdown, HTML)
package output
