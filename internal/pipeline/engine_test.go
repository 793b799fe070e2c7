package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/akulkarni/docintel/internal/model"
)

func writeParameterFile(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	rows := [][]any{
		{"Parameter Name", "Description"},
		{"CIBIL Score", "Credit score in the 300-900 range"},
		{"Active Accounts", "Number of active credit accounts"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "parameters.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Extraction.ParameterFile = writeParameterFile(t)
	return cfg
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.Gateway() == nil {
		t.Fatal("engine has no gateway")
	}
}

func TestNewEngineMissingSchema(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Extraction.ParameterFile = filepath.Join(t.TempDir(), "absent.xlsx")
	if _, err := NewEngine(cfg, nil); err == nil {
		t.Fatal("expected error for missing parameter file")
	}
}

func TestNewEngineUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = "nonsense"
	if _, err := NewEngine(cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestExtractFileUnknownType(t *testing.T) {
	engine, err := NewEngine(testConfig(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = engine.ExtractFile(context.Background(), "doc.pdf", "spreadsheet")
	if !errors.Is(err, ErrUnknownDocType) {
		t.Fatalf("error = %v, want ErrUnknownDocType", err)
	}
}

func TestExtractFileUnreadableDocument(t *testing.T) {
	engine, err := NewEngine(testConfig(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "bureau_report.pdf")
	if _, err := engine.ExtractFile(context.Background(), missing, DocTypeBureau); err == nil {
		t.Fatal("expected error for unreadable document")
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"data/GST_3B_Returns/gstr_april.pdf", DocTypeGST, false},
		{"upload_3b_march.pdf", DocTypeGST, false},
		{"crif_applicant.pdf", DocTypeBureau, false},
		{"Bureau_Report_1001.pdf", DocTypeBureau, false},
		{"statement.pdf", "", true},
	}

	for _, tt := range tests {
		got, err := DetectType(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectType(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownDocType) {
			t.Errorf("DetectType(%q) error = %v, want ErrUnknownDocType", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("DetectType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
