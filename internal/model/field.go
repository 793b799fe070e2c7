package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Source labels attached to extracted values. "Not Found" means the model
// said nothing; "Extraction Error" means the pipeline itself broke.
const (
	SourceNotFound        = "Not Found"
	SourceExtractionError = "Extraction Error"
	SourceRAGAnalysis     = "Bureau Report - RAG Analysis"
	SourceFallback        = "Fallback Pattern Match"
)

// ValueKind discriminates the closed set of shapes a model response value
// can take after JSON parsing.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindBool
	KindText
	KindOther // arrays/objects the model emitted despite instructions
)

// RawValue is a JSON value from the model response, held as a tagged
// variant so the classifier can switch exhaustively instead of chaining
// type assertions. The zero value is KindNull.
type RawValue struct {
	Kind   ValueKind
	Number float64
	Bool   bool
	Text   string
	Raw    string // original JSON for KindOther
}

// NumberValue builds a numeric RawValue.
func NumberValue(n float64) RawValue {
	return RawValue{Kind: KindNumber, Number: n}
}

// TextValue builds a string RawValue.
func TextValue(s string) RawValue {
	return RawValue{Kind: KindText, Text: s}
}

// BoolValue builds a boolean RawValue.
func BoolValue(b bool) RawValue {
	return RawValue{Kind: KindBool, Bool: b}
}

// UnmarshalJSON classifies the JSON token into the variant.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = RawValue{Kind: KindNull}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode string value: %w", err)
		}
		*v = RawValue{Kind: KindText, Text: s}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return fmt.Errorf("decode bool value: %w", err)
		}
		*v = RawValue{Kind: KindBool, Bool: b}
	case '{', '[':
		*v = RawValue{Kind: KindOther, Raw: string(trimmed)}
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decode number value: %w", err)
		}
		*v = RawValue{Kind: KindNumber, Number: n}
	}
	return nil
}

// IsNull reports whether the value is absent.
func (v RawValue) IsNull() bool {
	return v.Kind == KindNull
}

// ExtractedValue is the final (value, source, confidence) triple for one
// schema field. Value is nil, float64, bool or string.
type ExtractedValue struct {
	Value      any     `json:"value"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// SalesRow is one monthly sales figure recovered from a GST return.
type SalesRow struct {
	Month      string  `json:"month"`
	Sales      float64 `json:"sales"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}
