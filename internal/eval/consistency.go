// Package eval measures extraction stability and accuracy across repeated
// runs. It is decision support for prompt and parameter tuning, not part
// of the online extraction path.
package eval

import (
	"context"
	"fmt"
	"math"

	"github.com/akulkarni/docintel/internal/model"
)

// BureauRunner produces one bureau extraction result per invocation.
type BureauRunner func(ctx context.Context) (map[string]model.ExtractedValue, error)

// SalesRunner produces one sales extraction result per invocation.
type SalesRunner func(ctx context.Context) ([]model.SalesRow, error)

// FieldConsistency summarizes how one field behaved across runs. The score
// is binary: 1.0 only when every run produced the same stringified value.
type FieldConsistency struct {
	UniqueValues     int      `json:"unique_values"`
	Values           []string `json:"values"`
	ConsistencyScore float64  `json:"consistency_score"`
	MostCommon       string   `json:"most_common"`
}

// ConsistencyReport aggregates per-field agreement across N runs.
type ConsistencyReport struct {
	NumRuns            int                         `json:"num_runs"`
	SuccessfulRuns     int                         `json:"successful_runs"`
	OverallConsistency float64                     `json:"overall_consistency"`
	Fields             map[string]FieldConsistency `json:"parameter_consistency"`
}

// RunBureauConsistency executes the bureau pipeline numRuns times and
// scores per-field agreement. Failed runs are dropped; scores are computed
// over the successful ones.
func RunBureauConsistency(ctx context.Context, run BureauRunner, numRuns int) (ConsistencyReport, error) {
	var results []map[string]model.ExtractedValue
	for i := 0; i < numRuns; i++ {
		res, err := run(ctx)
		if err != nil {
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return ConsistencyReport{}, fmt.Errorf("no successful runs out of %d", numRuns)
	}

	fields := make(map[string]FieldConsistency, len(results[0]))
	var total float64
	for name := range results[0] {
		values := make([]string, 0, len(results))
		counts := make(map[string]int)
		for _, res := range results {
			s := stringify(res[name].Value)
			values = append(values, s)
			counts[s]++
		}

		fc := FieldConsistency{
			UniqueValues: len(counts),
			MostCommon:   mostCommon(counts),
		}
		for v := range counts {
			fc.Values = append(fc.Values, v)
		}
		if fc.UniqueValues == 1 {
			fc.ConsistencyScore = 1.0
		}
		fields[name] = fc
		total += fc.ConsistencyScore
	}

	overall := 0.0
	if len(fields) > 0 {
		overall = round2(total / float64(len(fields)))
	}
	return ConsistencyReport{
		NumRuns:            numRuns,
		SuccessfulRuns:     len(results),
		OverallConsistency: overall,
		Fields:             fields,
	}, nil
}

// SalesConsistencyReport scores sales-row agreement across N runs. Runs
// that disagree on row count score zero overall; otherwise each row
// position is scored on exact sales-figure agreement.
type SalesConsistencyReport struct {
	NumRuns            int     `json:"num_runs"`
	SuccessfulRuns     int     `json:"successful_runs"`
	OverallConsistency float64 `json:"overall_consistency"`
	LengthConsistency  float64 `json:"length_consistency"`
}

// RunSalesConsistency executes the sales pipeline numRuns times and scores
// row-count and per-position agreement.
func RunSalesConsistency(ctx context.Context, run SalesRunner, numRuns int) (SalesConsistencyReport, error) {
	var results [][]model.SalesRow
	for i := 0; i < numRuns; i++ {
		res, err := run(ctx)
		if err != nil {
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return SalesConsistencyReport{}, fmt.Errorf("no successful runs out of %d", numRuns)
	}

	report := SalesConsistencyReport{NumRuns: numRuns, SuccessfulRuns: len(results)}

	sameLength := true
	for _, res := range results[1:] {
		if len(res) != len(results[0]) {
			sameLength = false
			break
		}
	}
	if !sameLength {
		return report, nil
	}
	report.LengthConsistency = 1.0
	if len(results[0]) == 0 {
		return report, nil
	}

	var total float64
	for i := range results[0] {
		agree := true
		for _, res := range results[1:] {
			if res[i].Sales != results[0][i].Sales {
				agree = false
				break
			}
		}
		if agree {
			total++
		}
	}
	report.OverallConsistency = round2(total / float64(len(results[0])))
	return report, nil
}

// stringify collapses an extracted value to a comparable string, so 736.0
// and 736 from different runs compare equal only when genuinely equal.
func stringify(v any) string {
	if v == nil {
		return "<null>"
	}
	return fmt.Sprintf("%v", v)
}

func mostCommon(counts map[string]int) string {
	best, bestCount := "", -1
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
