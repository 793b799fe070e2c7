package eval

import (
	"github.com/akulkarni/docintel/internal/model"
)

// FieldAccuracy compares one extracted value against its expectation.
type FieldAccuracy struct {
	Expected  any     `json:"expected"`
	Extracted any     `json:"extracted"`
	Match     bool    `json:"match"`
	Accuracy  float64 `json:"accuracy"`
}

// AccuracyReport compares one run's output to ground truth.
type AccuracyReport struct {
	OverallAccuracy float64                  `json:"overall_accuracy"`
	Fields          map[string]FieldAccuracy `json:"parameter_accuracy"`
}

// ScoreAccuracy compares extracted values against a caller-supplied
// expected mapping using exact equality per field. Fields present only in
// the expectation count as misses.
func ScoreAccuracy(extracted map[string]model.ExtractedValue, expected map[string]any) AccuracyReport {
	fields := make(map[string]FieldAccuracy, len(expected))
	var total float64
	for name, want := range expected {
		var got any
		if v, ok := extracted[name]; ok {
			got = v.Value
		}
		fa := FieldAccuracy{Expected: want, Extracted: got, Match: got == want}
		if fa.Match {
			fa.Accuracy = 1.0
			total++
		}
		fields[name] = fa
	}

	overall := 0.0
	if len(expected) > 0 {
		overall = round2(total / float64(len(expected)))
	}
	return AccuracyReport{OverallAccuracy: overall, Fields: fields}
}
