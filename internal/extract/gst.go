package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/akulkarni/docintel/internal/llm"
	"github.com/akulkarni/docintel/internal/model"
)

// GSTR-3B returns have a rigid tabular anchor, so chunk selection is a
// keyword gate rather than semantic retrieval.
const (
	gstTableMarker  = "3.1"
	gstSectionLabel = "Outward taxable supplies"

	// The anchored, single-row extraction leaves little room for
	// ambiguity, so confidence is flat rather than tiered.
	salesConfidence = 0.95
)

// SalesExtractor recovers monthly sales rows from GST return chunks.
type SalesExtractor struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

// NewSalesExtractor creates a sales-row extractor.
func NewSalesExtractor(gateway llm.Gateway, logger *slog.Logger) *SalesExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesExtractor{gateway: gateway, logger: logger}
}

// Extract scans chunks in document order and asks the model for the Table
// 3.1(a) row of each qualifying chunk. A chunk whose response is missing
// or malformed is skipped silently; there is no partial record. Output
// order follows page order, at most one row per chunk.
func (e *SalesExtractor) Extract(ctx context.Context, chunks []model.DocumentChunk) []model.SalesRow {
	var rows []model.SalesRow
	for _, chunk := range chunks {
		if !strings.Contains(chunk.Text, gstTableMarker) || !strings.Contains(chunk.Text, gstSectionLabel) {
			continue
		}

		response, err := e.gateway.Invoke(ctx, buildSalesPrompt(chunk.Text))
		if err != nil {
			e.logger.Warn("sales extraction gateway call failed, skipping chunk",
				"page", chunk.PageNumber, "error", err)
			continue
		}

		row, ok := parseSalesRow(response, chunk.PageNumber)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func buildSalesPrompt(chunkText string) string {
	return fmt.Sprintf(`Context:
%s

Task: Extract the 'Period' (Month and Year) and the 'Total Taxable Value' from Table 3.1 row (a) 'Outward taxable supplies'.

Return format: JSON
{
    "month": "Month Year",
    "sales": 12345.00
}
If not found, return empty JSON {}.`, chunkText)
}

// parseSalesRow recovers one row from a model response. The sales figure
// may arrive as a number or as a comma-grouped string; both normalize
// through the same parse.
func parseSalesRow(response string, page int) (model.SalesRow, bool) {
	values, err := llm.ParseFieldObject(response)
	if err != nil {
		return model.SalesRow{}, false
	}

	salesValue, ok := values["sales"]
	if !ok || salesValue.IsNull() {
		return model.SalesRow{}, false
	}

	var sales float64
	switch salesValue.Kind {
	case model.KindNumber:
		sales = salesValue.Number
	case model.KindText:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(salesValue.Text), ",", ""), 64)
		if err != nil {
			return model.SalesRow{}, false
		}
		sales = parsed
	default:
		return model.SalesRow{}, false
	}

	month := "Unknown"
	if m := values["month"]; m.Kind == model.KindText && m.Text != "" {
		month = m.Text
	}

	return model.SalesRow{
		Month:      month,
		Sales:      sales,
		Source:     fmt.Sprintf("GSTR-3B Table 3.1(a) (Page %d)", page),
		Confidence: salesConfidence,
	}, true
}
