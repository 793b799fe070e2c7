package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/akulkarni/docintel/internal/model"
)

// stubGateway returns canned responses in sequence, or a fixed error.
type stubGateway struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) IsAvailable(ctx context.Context) bool { return g.err == nil }

func (g *stubGateway) Invoke(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	i := g.calls
	g.calls++
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}

// stubIndex answers every query with a fixed hit list.
type stubIndex struct {
	hits     []model.DocumentChunk
	queryErr error
	built    bool
	buildErr error
	tornDown bool
}

func (s *stubIndex) Build(ctx context.Context, chunks []model.DocumentChunk) error {
	s.built = true
	return s.buildErr
}

func (s *stubIndex) Query(ctx context.Context, query string, k int) ([]model.DocumentChunk, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if k > len(s.hits) {
		k = len(s.hits)
	}
	return s.hits[:k], nil
}

func (s *stubIndex) Teardown() { s.tornDown = true }

func testSchema() []model.SchemaField {
	return []model.SchemaField{
		{Name: "CIBIL Score", Description: "Credit score in the 300-900 range"},
		{Name: "Active Accounts", Description: "Number of active credit accounts"},
		{Name: "Overdue Amount", Description: "Total overdue amount across accounts"},
	}
}

func testChunks() []model.DocumentChunk {
	return []model.DocumentChunk{
		{Text: "CRIF HIGH MARK consumer report for applicant, generated January 2024, reference 1001.", PageNumber: 1, SourceFile: "report.pdf"},
		{Text: "Account Summary: Active Accounts 4, Total Current Balance 2,50,000, Overdue Amount 0.", PageNumber: 2, SourceFile: "report.pdf"},
	}
}

func TestBureauExtractorFillsEverySchemaField(t *testing.T) {
	gateway := &stubGateway{responses: []string{
		`{"CIBIL Score": 736, "Active Accounts": 4, "Overdue Amount": null}`,
	}}
	idx := &stubIndex{}
	e := NewBureauExtractor(testSchema(), "CIBIL Score", gateway, func() SemanticIndex { return idx }, nil)

	results := e.Extract(context.Background(), testChunks())

	if len(results) != len(testSchema()) {
		t.Fatalf("got %d results, want %d", len(results), len(testSchema()))
	}
	score := results["CIBIL Score"]
	if score.Value != float64(736) || score.Source != model.SourceRAGAnalysis || score.Confidence != 0.90 {
		t.Errorf("score = %+v, want 736 / rag / 0.90", score)
	}
	overdue := results["Overdue Amount"]
	if overdue.Value != nil || overdue.Source != model.SourceNotFound || overdue.Confidence != 0.0 {
		t.Errorf("overdue = %+v, want nil / not found / 0.0", overdue)
	}
	if !idx.built {
		t.Error("index was never built")
	}
	if !idx.tornDown {
		t.Error("index was not torn down")
	}
}

func TestBureauExtractorGatewayFailure(t *testing.T) {
	gateway := &stubGateway{err: errors.New("connection refused")}
	idx := &stubIndex{}
	e := NewBureauExtractor(testSchema(), "CIBIL Score", gateway, func() SemanticIndex { return idx }, nil)

	results := e.Extract(context.Background(), testChunks())

	for name, v := range results {
		if v.Source != model.SourceExtractionError || v.Confidence != 0.0 || v.Value != nil {
			t.Errorf("%s = %+v, want nil / extraction error / 0.0", name, v)
		}
	}
	if !idx.tornDown {
		t.Error("index was not torn down after gateway failure")
	}
}

func TestBureauExtractorUnparseableResponse(t *testing.T) {
	gateway := &stubGateway{responses: []string{"I could not find any of those values."}}
	e := NewBureauExtractor(testSchema(), "CIBIL Score", gateway, func() SemanticIndex { return &stubIndex{} }, nil)

	results := e.Extract(context.Background(), testChunks())

	// Prose is not a pipeline failure. Every field degrades to Not Found,
	// except the score which the pattern fallback may still recover.
	for name, v := range results {
		if name == "CIBIL Score" {
			continue
		}
		if v.Source != model.SourceNotFound {
			t.Errorf("%s source = %q, want %q", name, v.Source, model.SourceNotFound)
		}
	}
}

func TestBureauExtractorScoreFallback(t *testing.T) {
	gateway := &stubGateway{responses: []string{
		`{"CIBIL Score": null, "Active Accounts": 4, "Overdue Amount": 0}`,
	}}
	chunks := []model.DocumentChunk{
		{Text: "CRIF HIGH MARK report header page with applicant details and PERFORM CONSUMER 2.2300-900627 printed.", PageNumber: 1},
	}
	e := NewBureauExtractor(testSchema(), "CIBIL Score", gateway, func() SemanticIndex { return &stubIndex{} }, nil)

	results := e.Extract(context.Background(), chunks)

	score := results["CIBIL Score"]
	if score.Value != float64(627) {
		t.Fatalf("score value = %v, want 627", score.Value)
	}
	if score.Source != model.SourceFallback {
		t.Errorf("score source = %q, want %q", score.Source, model.SourceFallback)
	}
	if score.Confidence != 0.80 {
		t.Errorf("score confidence = %v, want 0.80", score.Confidence)
	}
}

func TestBureauExtractorDeterministicAcrossRuns(t *testing.T) {
	response := `{"CIBIL Score": 702, "Active Accounts": "4", "Overdue Amount": "1,500"}`
	var runs []map[string]model.ExtractedValue
	for i := 0; i < 3; i++ {
		gateway := &stubGateway{responses: []string{response}}
		e := NewBureauExtractor(testSchema(), "CIBIL Score", gateway, func() SemanticIndex { return &stubIndex{} }, nil)
		runs = append(runs, e.Extract(context.Background(), testChunks()))
	}
	for i := 1; i < len(runs); i++ {
		if fmt.Sprint(runs[i]) != fmt.Sprint(runs[0]) {
			t.Errorf("run %d differs from run 0:\n%v\n%v", i, runs[i], runs[0])
		}
	}
}

func TestBureauExtractorIndexBuildFailureDegrades(t *testing.T) {
	gateway := &stubGateway{responses: []string{`{"CIBIL Score": 690, "Active Accounts": 2, "Overdue Amount": 0}`}}
	idx := &stubIndex{buildErr: errors.New("embedder offline"), queryErr: errors.New("no collection")}
	e := NewBureauExtractor(testSchema(), "CIBIL Score", gateway, func() SemanticIndex { return idx }, nil)

	results := e.Extract(context.Background(), testChunks())

	if results["CIBIL Score"].Value != float64(690) {
		t.Errorf("score = %+v, want 690 despite index failure", results["CIBIL Score"])
	}
}
