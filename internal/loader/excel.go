package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/akulkarni/docintel/internal/model"
)

// LoadParameters reads the bureau parameter workbook: the first sheet,
// with a header row naming at least a parameter column and a description
// column. Headers are matched case-insensitively after trimming. Rows with
// no usable name degrade to the key "Unknown" rather than aborting; an
// unreadable workbook yields an empty schema.
func LoadParameters(path string, logger *slog.Logger) ([]model.SchemaField, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	nameCol, descCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "parameter name":
			nameCol = i
		case "parameter":
			if nameCol == -1 {
				nameCol = i
			}
		case "description":
			descCol = i
		}
	}

	var fields []model.SchemaField
	for _, row := range rows[1:] {
		name := cellAt(row, nameCol)
		desc := cellAt(row, descCol)
		if name == "" {
			if desc == "" {
				continue // fully empty row
			}
			logger.Warn("parameter row has no name, keying as Unknown", "description", desc)
			name = "Unknown"
		}
		if desc == "" {
			desc = name
		}
		fields = append(fields, model.SchemaField{Name: name, Description: desc})
	}
	return fields, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
