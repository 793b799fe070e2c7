package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/akulkarni/docintel/internal/model"
)

// SemanticIndex answers nearest-neighbor text queries over one document's
// chunks. Its lifetime is exactly one extraction call.
type SemanticIndex interface {
	Build(ctx context.Context, chunks []model.DocumentChunk) error
	Query(ctx context.Context, query string, k int) ([]model.DocumentChunk, error)
	Teardown()
}

// IndexFactory builds a fresh index for one extraction call.
type IndexFactory func() SemanticIndex

const (
	// First pages of a bureau report carry the score block and account
	// summary; they are positionally predictable, so they always go in.
	maxPriorityChunks = 10
	minPriorityChars  = 50

	retrievalK      = 3
	maxContextParts = 15
	maxContextChars = 12000

	pageBreakMarker  = "\n---PAGE BREAK---\n"
	truncationMarker = "\n...[truncated]"
)

// bureauQueries are the retrieval probes for the sections a bureau report
// labels explicitly but places unpredictably.
var bureauQueries = []string{
	"CRIF HM Score PERFORM CONSUMER credit score 300-900 range",
	"CIBIL Score credit rating score",
	"Account Summary Total Current Balance Overdue Amount Active Accounts Number",
	"Payment History DPD Days Past Due STD SMA SUB DBT",
	"Settlement Write-off Suit Filed Wilful Default",
	"Enquiry Summary Credit Inquiries",
	"Sanctioned Amount Disbursed Amount Active Loans",
}

// ContextAssembler selects and bounds the document text sent to the model.
type ContextAssembler struct {
	logger *slog.Logger
}

// NewContextAssembler creates a context assembler.
func NewContextAssembler(logger *slog.Logger) *ContextAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextAssembler{logger: logger}
}

// Assemble combines positional priority chunks with semantically retrieved
// ones, joins them with page-break markers, keeps the first 15 parts and
// hard-caps the result at 12,000 characters. A failed retrieval degrades
// to whatever was already collected.
func (a *ContextAssembler) Assemble(ctx context.Context, chunks []model.DocumentChunk, idx SemanticIndex, queries []string) string {
	var parts []string

	limit := len(chunks)
	if limit > maxPriorityChunks {
		limit = maxPriorityChunks
	}
	for _, chunk := range chunks[:limit] {
		if len(strings.TrimSpace(chunk.Text)) > minPriorityChars {
			parts = append(parts, chunk.Text)
		}
	}

	retrieved := make([]string, 0, len(queries)*retrievalK)
	seen := make(map[string]struct{})
	for _, query := range queries {
		hits, err := idx.Query(ctx, query, retrievalK)
		if err != nil {
			a.logger.Warn("retrieval failed, continuing without it", "query", query, "error", err)
			continue
		}
		for _, hit := range hits {
			if _, dup := seen[hit.Text]; dup {
				continue
			}
			seen[hit.Text] = struct{}{}
			retrieved = append(retrieved, hit.Text)
		}
	}
	parts = append(parts, retrieved...)

	if len(parts) > maxContextParts {
		parts = parts[:maxContextParts]
	}
	assembled := strings.Join(parts, pageBreakMarker)
	if len(assembled) > maxContextChars {
		assembled = assembled[:maxContextChars] + truncationMarker
	}
	return assembled
}
