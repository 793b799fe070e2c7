package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/akulkarni/docintel/internal/pipeline"
	"github.com/akulkarni/docintel/internal/worker"
)

var (
	concurrency  int
	bureauDir    string
	gstDir       string
	batchOut     string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract every document in the data directories in parallel",
	Long: `Batch processes the bureau and GST directories concurrently:
- Every PDF in the bureau directory runs the bureau pipeline
- Every PDF in the GST directory runs the sales-row pipeline
- Results are written to the output file after each document, so an
  interrupted batch keeps its finished work

Example:
  docintel batch
  docintel batch --bureau-dir ./reports --gst-dir ./returns --concurrency 4`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&bureauDir, "bureau-dir", "", "bureau reports directory (default from config)")
	batchCmd.Flags().StringVar(&gstDir, "gst-dir", "", "GST returns directory (default from config)")
	batchCmd.Flags().StringVar(&batchOut, "json", "extraction_results.json", "output JSON path")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if bureauDir == "" {
		bureauDir = cfg.Extraction.BureauDir
	}
	if gstDir == "" {
		gstDir = cfg.Extraction.GSTDir
	}
	logger := newLogger()

	engine, err := pipeline.NewEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(engine, concurrency)
	renderer := pipeline.NewRenderer(batchOut)

	total := 0
	for _, batch := range []struct {
		dir     string
		docType string
	}{
		{bureauDir, pipeline.DocTypeBureau},
		{gstDir, pipeline.DocTypeGST},
	} {
		if batch.dir == "" {
			continue
		}
		if _, err := os.Stat(batch.dir); err != nil {
			logger.Warn("skipping missing directory", "dir", batch.dir)
			continue
		}

		results, err := processor.ProcessDir(ctx, batch.dir, batch.docType)
		if err != nil {
			return err
		}
		for _, res := range results {
			name := filepath.Base(res.Path)
			if res.Error != nil {
				logger.Error("document failed", "file", name, "error", res.Error)
				if err := renderer.AddError(name, res.Error); err != nil {
					return err
				}
				continue
			}
			if err := renderer.Add(name, res.Result); err != nil {
				return err
			}
		}
		total += len(results)
	}

	if total == 0 {
		return fmt.Errorf("no documents found in %q or %q", bureauDir, gstDir)
	}

	fmt.Fprintf(os.Stdout, "Processed %d documents\n\n", total)
	renderer.PrintSummary(os.Stdout)
	return nil
}
