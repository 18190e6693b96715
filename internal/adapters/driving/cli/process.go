package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/connectors/filesystem"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/services"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// DefaultWorkers is the default number of files processed concurrently.
const DefaultWorkers = 4

var processCmd = &cobra.Command{
	Use:   "process <file|dir>",
	Short: "Build dataset records and rendered copies from documents",
	Long: `Process a file or every supported file in a directory.

Each document is extracted, segmented and appended to the JSONL dataset as a
conversation record. Markdown/HTML copies and summaries are written to the
output directory when enabled in settings.

With --watch, the directory is processed once and then watched for new or
modified files until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().IntP("workers", "w", DefaultWorkers, "Number of files processed concurrently")
	processCmd.Flags().Bool("watch", false, "Keep watching the directory for new files")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	ctx := commandContext(cmd)
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", target, err)
	}

	watch, _ := cmd.Flags().GetBool("watch") //nolint:errcheck // flag is registered above
	if !info.IsDir() {
		if watch {
			return errors.New("--watch requires a directory")
		}
		outcome := documentService.ProcessFile(ctx, target)
		printOutcome(cmd, outcome)
		if !outcome.OK() {
			return fmt.Errorf("processing %s failed", target)
		}
		return nil
	}

	workers, _ := cmd.Flags().GetInt("workers") //nolint:errcheck // flag is registered above
	outcomes, err := documentService.ProcessDirectory(ctx, target, workers)
	if err != nil {
		return fmt.Errorf("processing %s failed: %w", target, err)
	}
	printOutcomes(cmd, outcomes)

	if !watch {
		return nil
	}
	return watchDirectory(cmd, target)
}

// watchDirectory processes files as they settle until the context ends.
func watchDirectory(cmd *cobra.Command, dir string) error {
	ctx := commandContext(cmd)

	watcher := filesystem.New(dir, filesystem.WithFilter(services.IsSupportedFile))
	defer watcher.Close()

	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	for change := range changes {
		logger.Debug("watch: %s %s", change.Type, change.Path)
		printOutcome(cmd, documentService.ProcessFile(ctx, change.Path))
	}
	return nil
}

func printOutcome(cmd *cobra.Command, o domain.FileOutcome) {
	if !o.OK() {
		cmd.Printf("%s %s: %v\n", failMark(), o.Path, o.Err)
		return
	}
	record := "no record"
	if o.RecordWritten {
		record = "record written"
	}
	cmd.Printf("%s %s: %d paragraphs, %s\n", okMark(), o.Path, o.Paragraphs, record)
	for _, out := range o.Outputs {
		cmd.Printf("    %s\n", dimStyle.Render(out))
	}
}

func printOutcomes(cmd *cobra.Command, outcomes []domain.FileOutcome) {
	if len(outcomes) == 0 {
		cmd.Println("No supported files found.")
		return
	}
	var failed, records int
	for _, o := range outcomes {
		printOutcome(cmd, o)
		if !o.OK() {
			failed++
		}
		if o.RecordWritten {
			records++
		}
	}
	cmd.Println()
	cmd.Printf("Processed %d files: %d records written, %d failed\n", len(outcomes), records, failed)
}
