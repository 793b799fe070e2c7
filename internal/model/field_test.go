package model

import (
	"encoding/json"
	"testing"
)

func TestRawValueUnmarshalJSON(t *testing.T) {
	var parsed map[string]RawValue
	input := `{
		"score": 736,
		"name": "John",
		"flag": true,
		"missing": null,
		"weird": [1, 2]
	}`
	if err := json.Unmarshal([]byte(input), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v := parsed["score"]; v.Kind != KindNumber || v.Number != 736 {
		t.Errorf("score = %+v, want number 736", v)
	}
	if v := parsed["name"]; v.Kind != KindText || v.Text != "John" {
		t.Errorf("name = %+v, want text John", v)
	}
	if v := parsed["flag"]; v.Kind != KindBool || !v.Bool {
		t.Errorf("flag = %+v, want bool true", v)
	}
	if v := parsed["missing"]; !v.IsNull() {
		t.Errorf("missing = %+v, want null", v)
	}
	if v := parsed["weird"]; v.Kind != KindOther || v.Raw != "[1, 2]" {
		t.Errorf("weird = %+v, want raw passthrough", v)
	}
}

func TestRawValueUnmarshalMalformedNumber(t *testing.T) {
	var v RawValue
	if err := v.UnmarshalJSON([]byte("12a4")); err == nil {
		t.Fatal("expected error for malformed number")
	}
}

func TestRawValueZeroValueIsNull(t *testing.T) {
	var v RawValue
	if !v.IsNull() {
		t.Error("zero value should be null")
	}
}
