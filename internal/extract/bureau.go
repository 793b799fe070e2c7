package extract

import (
	"context"
	"log/slog"

	"github.com/akulkarni/docintel/internal/llm"
	"github.com/akulkarni/docintel/internal/model"
)

// BureauExtractor runs the full bureau pipeline: semantic index, context
// assembly, bulk model extraction, confidence classification, and the
// deterministic score fallback. The gateway and schema are shared
// read-only; the index and chunk list are owned by each call.
type BureauExtractor struct {
	schema     []model.SchemaField
	scoreField string
	newIndex   IndexFactory
	assembler  *ContextAssembler
	bulk       *BulkExtractor
	logger     *slog.Logger
}

// NewBureauExtractor creates a bureau extractor. scoreField names the
// schema key the regex fallback recovers when the model omits it.
func NewBureauExtractor(schema []model.SchemaField, scoreField string, gateway llm.Gateway, newIndex IndexFactory, logger *slog.Logger) *BureauExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BureauExtractor{
		schema:     schema,
		scoreField: scoreField,
		newIndex:   newIndex,
		assembler:  NewContextAssembler(logger),
		bulk:       NewBulkExtractor(gateway, logger),
		logger:     logger,
	}
}

// Extract produces exactly one ExtractedValue per schema field. It never
// returns an error: every failure mode degrades to a well-formed result.
// The per-call index is torn down on every exit path.
func (e *BureauExtractor) Extract(ctx context.Context, chunks []model.DocumentChunk) map[string]model.ExtractedValue {
	idx := e.newIndex()
	defer idx.Teardown()

	if err := idx.Build(ctx, chunks); err != nil {
		// Retrieval degrades to priority chunks only.
		e.logger.Warn("semantic index build failed, proceeding without retrieval", "error", err)
	}

	docContext := e.assembler.Assemble(ctx, chunks, idx, bureauQueries)
	e.logger.Debug("assembled extraction context", "chars", len(docContext), "chunks", len(chunks))

	result := e.bulk.Extract(ctx, docContext, e.schema)
	if result.GatewayErr != nil {
		return e.errorResult()
	}

	raw := result.Values
	fallbackFired := false
	if raw[e.scoreField].IsNull() {
		if score, ok := ResolveScoreFallback(docContext); ok {
			raw[e.scoreField] = model.NumberValue(float64(score))
			fallbackFired = true
			e.logger.Info("score recovered by pattern fallback", "score", score)
		}
	}

	results := make(map[string]model.ExtractedValue, len(e.schema))
	for _, field := range e.schema {
		value := Classify(raw[field.Name])
		if fallbackFired && field.Name == e.scoreField {
			value.Source = model.SourceFallback
			value.Confidence = confidenceFallback
		}
		results[field.Name] = value
	}
	return results
}

// errorResult force-sets every schema field to the catastrophic-failure
// triple, keeping "pipeline broke" distinct from "model said nothing".
func (e *BureauExtractor) errorResult() map[string]model.ExtractedValue {
	results := make(map[string]model.ExtractedValue, len(e.schema))
	for _, field := range e.schema {
		results[field.Name] = model.ExtractedValue{
			Value:      nil,
			Source:     model.SourceExtractionError,
			Confidence: 0.0,
		}
	}
	return results
}

// Schema returns the field list this extractor fills.
func (e *BureauExtractor) Schema() []model.SchemaField {
	return e.schema
}
