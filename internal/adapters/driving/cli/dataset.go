package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// maxRecordLine bounds a single JSONL line read by dataset validate.
const maxRecordLine = 64 << 20

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build and validate the fine-tuning dataset",
	Long: `Commands for the JSONL conversation dataset.

Each line of the dataset is {"messages":[...]} with alternating user and
assistant turns built from the segmented paragraphs of one document.`,
}

var datasetBuildCmd = &cobra.Command{
	Use:   "build <file>...",
	Short: "Append conversation records for documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDatasetBuild,
}

var datasetValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate every record of a dataset file",
	Long: `Validate every line of a JSONL dataset file.

Defaults to the dataset path from settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDatasetValidate,
}

func init() {
	datasetCmd.AddCommand(datasetBuildCmd)
	datasetCmd.AddCommand(datasetValidateCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetBuild(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	if datasetWriter == nil {
		return errors.New("dataset writer not configured")
	}
	ctx := commandContext(cmd)

	var written, skipped int
	for _, path := range args {
		record, err := buildRecord(cmd, path)
		if err != nil {
			cmd.Printf("%s %s: %v\n", failMark(), path, err)
			skipped++
			continue
		}
		if err := datasetWriter.Append(ctx, record); err != nil {
			return fmt.Errorf("failed to append record: %w", err)
		}
		cmd.Printf("%s %s: %d turns\n", okMark(), path, record.Len())
		written++
	}

	cmd.Println()
	cmd.Printf("Wrote %d records to %s (%d skipped)\n", written, datasetWriter.Path(), skipped)
	return nil
}

func buildRecord(cmd *cobra.Command, path string) (*domain.ConversationRecord, error) {
	ctx := commandContext(cmd)

	text, err := documentService.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}
	paragraphs, err := documentService.Segment(ctx, text)
	if err != nil {
		return nil, err
	}
	record, ok := datasetService.BuildRecord(text, paragraphs)
	if !ok {
		return nil, errors.New("not enough paragraphs for a conversation")
	}
	if !datasetService.ValidateRecord(record) {
		return nil, domain.ErrInvalidRecord
	}
	return record, nil
}

func runDatasetValidate(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	path := outputSettings.DatasetPath()
	if len(args) == 1 {
		path = args[0]
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLine)

	var line, valid, invalid int
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		if err := datasetService.ValidateRecordJSON(data); err != nil {
			cmd.Printf("%s line %d: %v\n", failMark(), line, err)
			invalid++
			continue
		}
		valid++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	cmd.Printf("%s: %d valid, %d invalid\n", path, valid, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid records", invalid)
	}
	return nil
}
