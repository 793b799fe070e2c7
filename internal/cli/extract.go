package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/akulkarni/docintel/internal/pipeline"
)

var (
	docType        string
	outJSON        string
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract structured data from a single document",
	Long: `Extract runs the full pipeline over one PDF:
- Bureau reports yield one value per schema parameter, each with a
  source label and confidence score
- GSTR-3B returns yield one sales row per qualifying Table 3.1 page

Example:
  docintel extract data/Bureau_Reports/report_1001.pdf
  docintel extract gstr3b_april.pdf --type gst --json out.json
  docintel extract report.pdf --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&docType, "type", pipeline.DocTypeAuto, "document type (bureau, gst, auto)")
	extractCmd.Flags().StringVar(&outJSON, "json", "extraction_results.json", "output JSON path")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 10*time.Minute, "overall extraction timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	engine, err := pipeline.NewEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting: %s (type %s)\n", path, docType)
	}

	result, err := engine.ExtractFile(ctx, path, docType)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	renderer := pipeline.NewRenderer(outJSON)
	if err := renderer.Add(filepath.Base(path), result); err != nil {
		return err
	}
	renderer.PrintSummary(os.Stdout)
	return nil
}
