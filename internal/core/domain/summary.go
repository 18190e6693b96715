package domain

import "strings"

// DocumentSummary is an AI generated executive summary and table of contents.
type DocumentSummary struct {
	Summary         string `json:"summary"`
	TableOfContents string `json:"table_of_contents"`
}

// IsEmpty returns true if neither part was produced.
func (s DocumentSummary) IsEmpty() bool {
	return strings.TrimSpace(s.Summary) == "" && strings.TrimSpace(s.TableOfContents) == ""
}
