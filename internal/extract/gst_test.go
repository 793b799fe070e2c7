package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akulkarni/docintel/internal/model"
)

const gstChunkText = `FORM GSTR-3B
3.1 Details of Outward supplies and inward supplies liable to reverse charge
(a) Outward taxable supplies (other than zero rated, nil rated and exempted)  12,345.00`

func TestSalesExtractorRecoversRow(t *testing.T) {
	gateway := &stubGateway{responses: []string{
		`{"month": "April 2024", "sales": "12,345.00"}`,
	}}
	e := NewSalesExtractor(gateway, nil)

	rows := e.Extract(context.Background(), []model.DocumentChunk{
		{Text: gstChunkText, PageNumber: 3},
	})

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Month != "April 2024" {
		t.Errorf("Month = %q, want %q", row.Month, "April 2024")
	}
	if row.Sales != 12345.0 {
		t.Errorf("Sales = %v, want 12345.0", row.Sales)
	}
	if !strings.Contains(row.Source, "Page 3") {
		t.Errorf("Source = %q, want page number included", row.Source)
	}
	if row.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", row.Confidence)
	}
}

func TestSalesExtractorSkipsUnmarkedChunks(t *testing.T) {
	gateway := &stubGateway{responses: []string{`{"month": "May 2024", "sales": 100}`}}
	e := NewSalesExtractor(gateway, nil)

	rows := e.Extract(context.Background(), []model.DocumentChunk{
		{Text: "3.1 appears here but the section label does not", PageNumber: 1},
		{Text: "Outward taxable supplies mentioned without the table number", PageNumber: 2},
	})

	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
	if gateway.calls != 0 {
		t.Errorf("gateway called %d times for non-qualifying chunks", gateway.calls)
	}
}

func TestSalesExtractorTypedSalesNumber(t *testing.T) {
	gateway := &stubGateway{responses: []string{`{"month": "June 2024", "sales": 98765.5}`}}
	e := NewSalesExtractor(gateway, nil)

	rows := e.Extract(context.Background(), []model.DocumentChunk{{Text: gstChunkText, PageNumber: 1}})

	if len(rows) != 1 || rows[0].Sales != 98765.5 {
		t.Fatalf("rows = %+v, want one row with sales 98765.5", rows)
	}
}

func TestSalesExtractorEmptyResponseSkipped(t *testing.T) {
	gateway := &stubGateway{responses: []string{`{}`}}
	e := NewSalesExtractor(gateway, nil)

	rows := e.Extract(context.Background(), []model.DocumentChunk{{Text: gstChunkText, PageNumber: 1}})

	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0 for empty response", len(rows))
	}
}

func TestSalesExtractorGatewayErrorSkipsChunk(t *testing.T) {
	gateway := &stubGateway{err: errors.New("timeout")}
	e := NewSalesExtractor(gateway, nil)

	rows := e.Extract(context.Background(), []model.DocumentChunk{{Text: gstChunkText, PageNumber: 1}})

	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0 after gateway error", len(rows))
	}
}

func TestSalesExtractorMissingMonthDefaults(t *testing.T) {
	gateway := &stubGateway{responses: []string{`{"sales": 500}`}}
	e := NewSalesExtractor(gateway, nil)

	rows := e.Extract(context.Background(), []model.DocumentChunk{{Text: gstChunkText, PageNumber: 1}})

	if len(rows) != 1 || rows[0].Month != "Unknown" {
		t.Fatalf("rows = %+v, want one row with month Unknown", rows)
	}
}
