package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file|->",
	Short: "Extract structured fields from a document",
	Long: `Classify a document and extract its fields.

Fiscal documents yield CNPJ, dates and amounts; legal documents yield process
numbers and parties; bank documents yield account data. Use --type to skip
classification and --enrich to let the configured LLM fill in missing fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("type", "t", "", "Document type (juridico, fiscal, bancario)")
	extractCmd.Flags().Bool("enrich", false, "Enrich fields with the configured LLM")
	extractCmd.Flags().Bool("json", false, "Print fields as JSON")
	rootCmd.AddCommand(extractCmd)
}

type extractJSON struct {
	Type     domain.DocumentType       `json:"type"`
	Label    string                    `json:"label"`
	Enriched bool                      `json:"enriched"`
	Fields   *domain.ExtractedFieldSet `json:"fields"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	var hint domain.DocumentType
	if raw, _ := cmd.Flags().GetString("type"); raw != "" { //nolint:errcheck // flag is registered above
		t, ok := domain.ParseDocumentType(raw)
		if !ok {
			return fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidInput, raw)
		}
		hint = t
	}

	extractor := extractionService
	if enrich, _ := cmd.Flags().GetBool("enrich"); enrich { //nolint:errcheck // flag is registered above
		if enrichedExtraction == nil {
			return fmt.Errorf("--enrich: %w", domain.ErrLLMUnavailable)
		}
		extractor = enrichedExtraction
	}

	text, err := readInputText(cmd, args[0])
	if err != nil {
		return err
	}

	fields := extractor.Extract(commandContext(cmd), text, hint)

	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered above
	if asJSON {
		return writeJSON(cmd, extractJSON{
			Type:     fields.DocumentType,
			Label:    fields.DocumentType.Label(),
			Enriched: fields.Enriched,
			Fields:   fields,
		})
	}

	cmd.Printf("Type: %s\n", fields.DocumentType.Label())
	if fields.Enriched {
		cmd.Println("Enriched: yes")
	}
	if fields.Len() == 0 {
		cmd.Println("No fields found.")
		return nil
	}
	cmd.Println()
	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		cmd.Printf("  %-24s %s\n", key, domain.FormatFieldValue(v))
	}
	return nil
}
