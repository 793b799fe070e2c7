package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akulkarni/docintel/internal/llm"
	"github.com/akulkarni/docintel/internal/model"
)

// BulkResult is the outcome of one bulk extraction call. GatewayErr is set
// only when the model could not be reached at all; a reachable model whose
// response failed to parse yields empty Values and a nil GatewayErr, so the
// caller can distinguish "model said nothing" from "pipeline broke".
type BulkResult struct {
	Values     map[string]model.RawValue
	GatewayErr error
}

// BulkExtractor fills an entire named-field schema with one model call.
type BulkExtractor struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

// NewBulkExtractor creates a bulk extractor.
func NewBulkExtractor(gateway llm.Gateway, logger *slog.Logger) *BulkExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkExtractor{gateway: gateway, logger: logger}
}

// Extract prompts the gateway once for all schema fields and parses the
// response. Malformed responses degrade to empty Values, never to an error.
func (e *BulkExtractor) Extract(ctx context.Context, docContext string, schema []model.SchemaField) BulkResult {
	prompt := buildBulkPrompt(docContext, schema)

	response, err := e.gateway.Invoke(ctx, prompt)
	if err != nil {
		e.logger.Error("bulk extraction gateway call failed", "error", err)
		return BulkResult{Values: map[string]model.RawValue{}, GatewayErr: err}
	}

	values, err := llm.ParseFieldObject(response)
	if err != nil {
		e.logger.Warn("bulk response unparseable, degrading to empty field set",
			"error", err, "response_chars", len(response))
		return BulkResult{Values: map[string]model.RawValue{}}
	}
	return BulkResult{Values: values}
}

// buildBulkPrompt embeds every (name, description) pair, the assembled
// context, and the extraction rules into a single prompt.
func buildBulkPrompt(docContext string, schema []model.SchemaField) string {
	var params strings.Builder
	for _, f := range schema {
		fmt.Fprintf(&params, "- %q: %s\n", f.Name, f.Description)
	}

	var format strings.Builder
	format.WriteString("{\n")
	for i, f := range schema {
		fmt.Fprintf(&format, "  %q: <value or null>", f.Name)
		if i < len(schema)-1 {
			format.WriteString(",")
		}
		format.WriteString("\n")
	}
	format.WriteString("}")

	return fmt.Sprintf(`You are a credit bureau data extraction expert. Extract the following parameters from the bureau report text below.

PARAMETERS TO EXTRACT:
%s
BUREAU REPORT TEXT:
%s

EXTRACTION RULES:
1. Look for exact values in the text
2. For the credit score: it may appear as "CIBIL Score", "CRIF Score", "CRIF HM Score", or "PERFORM CONSUMER" followed by a score number (typically 300-900 range). In patterns like "PERFORM CONSUMER 2.2300-900627" the score is 627.
3. For DPD (Days Past Due): count occurrences of delinquency in payment history (SMA, SUB, DBT, LSS, or any non-STD status codes)
4. For enquiries: look in the "Enquiry Summary" section or count recent credit inquiries
5. For account counts: look in "Account Summary" for "Active Accounts" or "Number of Accounts"
6. For amounts: extract numeric values, remove commas and currency symbols
7. For yes/no parameters: return true or false based on presence of indicators
8. If you cannot find a value, return null
9. Return ONLY valid JSON, no explanations

OUTPUT FORMAT (JSON only):
%s

RESPOND WITH JSON ONLY:`, params.String(), docContext, format.String())
}
