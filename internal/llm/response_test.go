package llm

import (
	"testing"

	"github.com/akulkarni/docintel/internal/model"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"typed fence", "```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"bare fence", "```\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"no fence", "{\"a\": 1}", "{\"a\": 1}"},
		{"fence mid-text", "here:\n```json\n{}\n```\ndone", "here:\n\n{}\n\ndone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	obj, ok := ExtractObject("Sure! Here is the JSON you asked for: {\"a\": 1} Hope that helps.")
	if !ok {
		t.Fatal("expected object to be found")
	}
	if obj != "{\"a\": 1}" {
		t.Errorf("got %q", obj)
	}

	if _, ok := ExtractObject("no braces here"); ok {
		t.Error("expected no object in prose")
	}
	if _, ok := ExtractObject("} backwards {"); ok {
		t.Error("expected no object when braces are reversed")
	}
}

func TestParseFieldObject(t *testing.T) {
	raw := "```json\n{\"CIBIL Score\": 627, \"Suit Filed\": false, \"Remark\": \"settled\", \"Max Loans\": null}\n```"
	values, err := ParseFieldObject(raw)
	if err != nil {
		t.Fatalf("ParseFieldObject: %v", err)
	}

	if v := values["CIBIL Score"]; v.Kind != model.KindNumber || v.Number != 627 {
		t.Errorf("CIBIL Score = %+v, want number 627", v)
	}
	if v := values["Suit Filed"]; v.Kind != model.KindBool || v.Bool {
		t.Errorf("Suit Filed = %+v, want bool false", v)
	}
	if v := values["Remark"]; v.Kind != model.KindText || v.Text != "settled" {
		t.Errorf("Remark = %+v, want text settled", v)
	}
	if v := values["Max Loans"]; !v.IsNull() {
		t.Errorf("Max Loans = %+v, want null", v)
	}
}

func TestParseFieldObject_ProseWrapped(t *testing.T) {
	raw := "The extracted values are as follows:\n{\"A\": 1}\nLet me know if you need more."
	values, err := ParseFieldObject(raw)
	if err != nil {
		t.Fatalf("ParseFieldObject: %v", err)
	}
	if v := values["A"]; v.Kind != model.KindNumber || v.Number != 1 {
		t.Errorf("A = %+v, want number 1", v)
	}
}

func TestParseFieldObject_Malformed(t *testing.T) {
	if _, err := ParseFieldObject("I could not find any values."); err == nil {
		t.Error("expected error for prose without object")
	}
	if _, err := ParseFieldObject("{\"A\": }"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseFieldObject_NestedValueKeptAsOther(t *testing.T) {
	values, err := ParseFieldObject(`{"History": {"a": 1}, "Months": [1, 2]}`)
	if err != nil {
		t.Fatalf("ParseFieldObject: %v", err)
	}
	if v := values["History"]; v.Kind != model.KindOther {
		t.Errorf("History = %+v, want KindOther", v)
	}
	if v := values["Months"]; v.Kind != model.KindOther {
		t.Errorf("Months = %+v, want KindOther", v)
	}
}
