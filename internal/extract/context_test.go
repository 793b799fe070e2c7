package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akulkarni/docintel/internal/model"
)

func longText(label string, n int) string {
	return label + ": " + strings.Repeat("x", n)
}

func TestAssemblePriorityChunkSelection(t *testing.T) {
	chunks := []model.DocumentChunk{
		{Text: longText("page one", 80), PageNumber: 1},
		{Text: "   short   ", PageNumber: 2},
		{Text: longText("page three", 80), PageNumber: 3},
	}
	a := NewContextAssembler(nil)

	got := a.Assemble(context.Background(), chunks, &stubIndex{}, bureauQueries)

	if !strings.Contains(got, "page one") || !strings.Contains(got, "page three") {
		t.Errorf("priority chunks missing from context:\n%s", got)
	}
	if strings.Contains(got, "short") {
		t.Error("under-length chunk should have been dropped")
	}
	if !strings.Contains(got, "---PAGE BREAK---") {
		t.Error("parts should be joined with page break markers")
	}
}

func TestAssembleRetrievedChunksDeduplicated(t *testing.T) {
	hit := model.DocumentChunk{Text: longText("retrieved section", 60), PageNumber: 7}
	idx := &stubIndex{hits: []model.DocumentChunk{hit, hit, hit}}
	a := NewContextAssembler(nil)

	// No priority chunks qualify, so the context is retrieval only.
	got := a.Assemble(context.Background(), []model.DocumentChunk{{Text: "tiny"}}, idx, []string{"q1", "q2"})

	if n := strings.Count(got, "retrieved section"); n != 1 {
		t.Errorf("retrieved text appears %d times, want 1", n)
	}
}

// countingIndex returns a fresh unique hit for every query, so retrieval
// keeps adding parts until the assembler's cap stops it.
type countingIndex struct {
	stubIndex
	n int
}

func (c *countingIndex) Query(ctx context.Context, query string, k int) ([]model.DocumentChunk, error) {
	c.n++
	return []model.DocumentChunk{{Text: longText(fmt.Sprintf("hit %02d", c.n), 60)}}, nil
}

func TestAssemblePartCap(t *testing.T) {
	var chunks []model.DocumentChunk
	for i := 0; i < 12; i++ {
		chunks = append(chunks, model.DocumentChunk{Text: longText(fmt.Sprintf("chunk %02d", i), 60), PageNumber: i + 1})
	}
	a := NewContextAssembler(nil)

	got := a.Assemble(context.Background(), chunks, &countingIndex{}, bureauQueries)

	parts := strings.Split(got, pageBreakMarker)
	if len(parts) != maxContextParts {
		t.Errorf("got %d parts, want %d", len(parts), maxContextParts)
	}
	// Only the first ten chunks are positional candidates.
	if strings.Contains(got, "chunk 10") || strings.Contains(got, "chunk 11") {
		t.Error("chunks past the priority window leaked into the context")
	}
}

func TestAssembleCharacterCap(t *testing.T) {
	chunks := []model.DocumentChunk{
		{Text: longText("a", 7000)},
		{Text: longText("b", 7000)},
	}
	a := NewContextAssembler(nil)

	got := a.Assemble(context.Background(), chunks, &stubIndex{}, nil)

	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("capped context should end with the truncation marker, got tail %q", got[len(got)-30:])
	}
	if len(got) != maxContextChars+len(truncationMarker) {
		t.Errorf("context length = %d, want %d", len(got), maxContextChars+len(truncationMarker))
	}
}

func TestAssembleRetrievalFailureDegrades(t *testing.T) {
	chunks := []model.DocumentChunk{{Text: longText("only page", 80), PageNumber: 1}}
	idx := &stubIndex{queryErr: errors.New("collection gone")}
	a := NewContextAssembler(nil)

	got := a.Assemble(context.Background(), chunks, idx, bureauQueries)

	if !strings.Contains(got, "only page") {
		t.Errorf("priority content should survive retrieval failure, got:\n%s", got)
	}
}
