package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/services"
)

// dateTimeLayout is used for batch timestamps in listings.
const dateTimeLayout = "2006-01-02 15:04:05"

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>...",
	Short: "Extract fields from many documents into a table",
	Long: `Run field extraction over files and directories and write one table.

Directories contribute every supported file they contain. Documents that
cannot be read are skipped and reported with a suggested recovery. The
table is written as CSV or XLSX to the output directory unless --out is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored batch runs",
	Args:  cobra.NoArgs,
	RunE:  runBatchList,
}

var batchShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored batch run",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchShow,
}

func init() {
	batchCmd.Flags().StringP("format", "f", "", "Table format (csv, xlsx); defaults to settings")
	batchCmd.Flags().StringP("out", "o", "", "Table output path")
	batchShowCmd.Flags().StringP("out", "o", "", "Write the stored table to this path")
	batchCmd.AddCommand(batchListCmd)
	batchCmd.AddCommand(batchShowCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	format, out, err := tableTarget(cmd)
	if err != nil {
		return err
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmd.Println("No supported files found.")
		return nil
	}

	result, err := batchService.ProcessBatch(commandContext(cmd), paths)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printBatch(cmd, result)
	return writeTable(cmd, result, format, out)
}

func runBatchList(cmd *cobra.Command, _ []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	batches, err := batchService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}
	if len(batches) == 0 {
		cmd.Println("No stored batches.")
		return nil
	}

	cmd.Println(header("Batches"))
	for _, b := range batches {
		cmd.Printf("  %s  %s  %d documents, %d failures\n",
			b.ID, b.StartedAt.Local().Format(dateTimeLayout), b.Documents, b.Failures)
	}
	return nil
}

func runBatchShow(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	result, err := batchService.Get(commandContext(cmd), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("batch %s not found", args[0])
		}
		return fmt.Errorf("failed to get batch: %w", err)
	}

	printBatch(cmd, result)

	out, _ := cmd.Flags().GetString("out") //nolint:errcheck // flag is registered above
	if out == "" {
		return nil
	}
	format := domain.TableFormat(strings.TrimPrefix(filepath.Ext(out), "."))
	if !format.IsValid() {
		format = outputSettings.TableFormat
	}
	return writeTable(cmd, result, format, out)
}

// tableTarget resolves the table format and path from flags and settings.
// The format of --out wins over settings when its extension is recognised.
func tableTarget(cmd *cobra.Command) (domain.TableFormat, string, error) {
	rawFormat, _ := cmd.Flags().GetString("format") //nolint:errcheck // flag is registered above
	out, _ := cmd.Flags().GetString("out")          //nolint:errcheck // flag is registered above

	format := outputSettings.TableFormat
	switch {
	case rawFormat != "":
		format = domain.TableFormat(strings.ToLower(rawFormat))
	case out != "":
		if ext := domain.TableFormat(strings.TrimPrefix(filepath.Ext(out), ".")); ext.IsValid() {
			format = ext
		}
	}
	if !format.IsValid() {
		return "", "", fmt.Errorf("%w: unknown table format %q", domain.ErrInvalidInput, format)
	}

	if out == "" {
		settings := outputSettings
		settings.TableFormat = format
		out = settings.TablePath()
	}
	return format, out, nil
}

// expandPaths replaces directories with their supported files.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := services.ListSupportedFiles(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func writeTable(cmd *cobra.Command, result *domain.BatchResult, format domain.TableFormat, out string) error {
	if tableWriterFor == nil {
		return errors.New("table writer not configured")
	}
	writer, err := tableWriterFor(format)
	if err != nil {
		return err
	}
	if err := writer.Write(commandContext(cmd), out, result); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	cmd.Printf("Table written to %s\n", out)
	return nil
}

func printBatch(cmd *cobra.Command, result *domain.BatchResult) {
	cmd.Println(header("Batch " + result.ID))
	for _, row := range result.Rows {
		cmd.Printf("%s %s: %s, %d fields\n", okMark(), row.Path, row.Result.DocumentType.Label(), row.Result.Len())
	}
	for _, f := range result.Failures {
		cmd.Printf("%s %s: %s\n", failMark(), f.Path, f.Error)
		recovery := f.Kind.Recovery()
		cmd.Printf("    %s\n", recovery.Action)
		for _, step := range recovery.Steps {
			cmd.Printf("      - %s\n", dimStyle.Render(step))
		}
	}
	cmd.Println()
	cmd.Printf("%d documents, %d failures in %s\n", len(result.Rows), len(result.Failures), result.Duration().Round(time.Millisecond))
}
