package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akulkarni/docintel/internal/eval"
	"github.com/akulkarni/docintel/internal/model"
	"github.com/akulkarni/docintel/internal/pipeline"
)

var (
	evalRuns     int
	evalType     string
	expectedFile string
	evalTimeout  time.Duration
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Measure extraction consistency and accuracy",
	Long: `Eval is decision support for prompt and parameter tuning. It runs the
pipeline repeatedly over the same document and reports how often runs
agree, or compares one run against a ground-truth file.`,
}

var evalConsistencyCmd = &cobra.Command{
	Use:   "consistency <file.pdf>",
	Short: "Run the pipeline N times and score agreement",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvalConsistency,
}

var evalAccuracyCmd = &cobra.Command{
	Use:   "accuracy <file.pdf>",
	Short: "Compare one run against expected values",
	Long: `Accuracy compares extracted values to a JSON file mapping parameter
names to expected values, using exact equality per field.

Example:
  docintel eval accuracy report.pdf --expected truth.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvalAccuracy,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.AddCommand(evalConsistencyCmd)
	evalCmd.AddCommand(evalAccuracyCmd)

	evalCmd.PersistentFlags().StringVar(&evalType, "type", pipeline.DocTypeAuto, "document type (bureau, gst, auto)")
	evalCmd.PersistentFlags().DurationVar(&evalTimeout, "timeout", time.Hour, "overall evaluation timeout")
	evalConsistencyCmd.Flags().IntVar(&evalRuns, "runs", 5, "number of independent runs")
	evalAccuracyCmd.Flags().StringVar(&expectedFile, "expected", "", "JSON file with expected values (required)")
	_ = evalAccuracyCmd.MarkFlagRequired("expected")
}

func evalSetup(path string) (*pipeline.Engine, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	// Repeated runs must hit the model every time, not the cache.
	cfg.Cache.Enabled = false

	engine, err := pipeline.NewEngine(cfg, newLogger())
	if err != nil {
		return nil, "", err
	}

	docType := evalType
	if docType == pipeline.DocTypeAuto {
		docType, err = pipeline.DetectType(path)
		if err != nil {
			return nil, "", err
		}
	}
	return engine, docType, nil
}

func runEvalConsistency(cmd *cobra.Command, args []string) error {
	path := args[0]
	engine, docType, err := evalSetup(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	var report any
	switch docType {
	case pipeline.DocTypeBureau:
		report, err = eval.RunBureauConsistency(ctx, func(ctx context.Context) (map[string]model.ExtractedValue, error) {
			result, err := engine.ExtractBureau(ctx, path)
			if err != nil {
				return nil, err
			}
			return result.BureauParameters, nil
		}, evalRuns)
	case pipeline.DocTypeGST:
		report, err = eval.RunSalesConsistency(ctx, func(ctx context.Context) ([]model.SalesRow, error) {
			result, err := engine.ExtractGST(ctx, path)
			if err != nil {
				return nil, err
			}
			return result.GstSales, nil
		}, evalRuns)
	default:
		return fmt.Errorf("unknown document type %q", docType)
	}
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runEvalAccuracy(cmd *cobra.Command, args []string) error {
	path := args[0]
	engine, docType, err := evalSetup(path)
	if err != nil {
		return err
	}
	if docType != pipeline.DocTypeBureau {
		return fmt.Errorf("accuracy evaluation supports bureau documents only")
	}

	data, err := os.ReadFile(expectedFile)
	if err != nil {
		return fmt.Errorf("read expected values: %w", err)
	}
	var expected map[string]any
	if err := json.Unmarshal(data, &expected); err != nil {
		return fmt.Errorf("parse expected values: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	result, err := engine.ExtractBureau(ctx, path)
	if err != nil {
		return err
	}

	return printJSON(eval.ScoreAccuracy(result.BureauParameters, expected))
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
