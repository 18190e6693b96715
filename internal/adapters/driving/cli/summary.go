package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/output/render"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Summarise a document with the configured LLM",
	Long: `Generate an executive summary and a table of contents for a document.

Requires a configured LLM provider (see 'ocrsc settings').`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().Bool("json", false, "Print the summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	summary, err := documentService.Summarise(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered above
	if asJSON {
		return writeJSON(cmd, summary)
	}

	if summary == nil || summary.IsEmpty() {
		cmd.Println("No summary produced.")
		return nil
	}
	if summary.Summary != "" {
		cmd.Println(header(render.SummaryHeading))
		cmd.Println(summary.Summary)
		cmd.Println()
	}
	if summary.TableOfContents != "" {
		cmd.Println(header(render.TOCHeading))
		cmd.Println(summary.TableOfContents)
	}
	return nil
}
