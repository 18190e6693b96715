package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <file|->",
	Short: "Split a document into typed paragraphs",
	Long: `Extract the text of a document and split it into paragraphs.

Each paragraph is tagged heading, article, emphasis or normal. Pass "-" to
read plain text from stdin instead of a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().Bool("json", false, "Print paragraphs as JSON")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	ctx := commandContext(cmd)

	text, err := readInputText(cmd, args[0])
	if err != nil {
		return err
	}

	paragraphs, err := documentService.Segment(ctx, text)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered above
	if asJSON {
		if paragraphs == nil {
			paragraphs = []domain.Paragraph{}
		}
		return writeJSON(cmd, paragraphs)
	}

	if len(paragraphs) == 0 {
		cmd.Println("No paragraphs found.")
		return nil
	}
	for i, p := range paragraphs {
		cmd.Printf("%3d [%s] %s\n", i+1, p.Kind, p.Text)
	}
	cmd.Println()
	cmd.Println(dimStyle.Render(formatKindCounts(paragraphs)))
	return nil
}

// readInputText returns stdin for "-" and the extracted text of a file otherwise.
func readInputText(cmd *cobra.Command, arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	text, err := documentService.ExtractText(commandContext(cmd), arg)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", arg, err)
	}
	return text, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatKindCounts renders "N paragraphs (heading: a, article: b, ...)".
func formatKindCounts(paragraphs []domain.Paragraph) string {
	counts := make(map[domain.ParagraphKind]int)
	for _, p := range paragraphs {
		counts[p.Kind]++
	}
	kinds := []domain.ParagraphKind{
		domain.ParagraphHeading, domain.ParagraphArticle, domain.ParagraphEmphasis, domain.ParagraphNormal,
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return fmt.Sprintf("%d paragraphs (%s)", len(paragraphs), strings.Join(parts, ", "))
}
