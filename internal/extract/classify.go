package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akulkarni/docintel/internal/model"
)

// Confidence tiers encode how much transformation a value needed: untouched
// typed values are trusted most, strings that required numeric parsing
// less, generic string leftovers least.
const (
	confidenceTyped        = 0.90
	confidenceParsedNumber = 0.85
	confidenceString       = 0.75
	confidenceOther        = 0.70
	confidenceFallback     = 0.80
)

// maxNumericStringLen bounds how long a string may be and still count as a
// numeric answer; longer strings are kept verbatim as text.
const maxNumericStringLen = 20

var numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// notFoundStrings are model spellings of "no value here".
var notFoundStrings = map[string]struct{}{
	"null":      {},
	"not found": {},
	"n/a":       {},
	"na":        {},
}

// Classify applies the deterministic provenance policy to one raw value,
// independent of field semantics.
func Classify(raw model.RawValue) model.ExtractedValue {
	switch raw.Kind {
	case model.KindNull:
		return model.ExtractedValue{Value: nil, Source: model.SourceNotFound, Confidence: 0.0}

	case model.KindText:
		if _, explicit := notFoundStrings[strings.ToLower(raw.Text)]; explicit {
			return model.ExtractedValue{Value: nil, Source: model.SourceNotFound, Confidence: 0.0}
		}
		if num, ok := extractNumber(raw.Text); ok && len(raw.Text) < maxNumericStringLen {
			return model.ExtractedValue{Value: num, Source: model.SourceRAGAnalysis, Confidence: confidenceParsedNumber}
		}
		return model.ExtractedValue{Value: raw.Text, Source: model.SourceRAGAnalysis, Confidence: confidenceString}

	case model.KindNumber:
		return model.ExtractedValue{Value: raw.Number, Source: model.SourceRAGAnalysis, Confidence: confidenceTyped}

	case model.KindBool:
		return model.ExtractedValue{Value: raw.Bool, Source: model.SourceRAGAnalysis, Confidence: confidenceTyped}

	default: // KindOther: arrays/objects pass through as their raw JSON
		return model.ExtractedValue{Value: raw.Raw, Source: model.SourceRAGAnalysis, Confidence: confidenceOther}
	}
}

// extractNumber pulls the first numeric token out of a string, tolerating
// thousands separators ("1,23,456.78" -> 123456.78).
func extractNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}
