package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/akulkarni/docintel/internal/model"
)

// FileEntry is one file's outcome in a batch results document. Exactly one
// of Result and Error is set.
type FileEntry struct {
	*model.DocumentResult
	Error string `json:"error,omitempty"`
}

// Renderer accumulates per-file results and writes them to a JSON results
// file after every update, so a long batch interrupted midway still leaves
// the finished files on disk.
type Renderer struct {
	path    string
	entries map[string]FileEntry
}

// NewRenderer creates a renderer writing to path.
func NewRenderer(path string) *Renderer {
	return &Renderer{
		path:    path,
		entries: make(map[string]FileEntry),
	}
}

// Add records one file's result and rewrites the results file.
func (r *Renderer) Add(name string, result *model.DocumentResult) error {
	r.entries[name] = FileEntry{DocumentResult: result}
	return r.save()
}

// AddError records one file's failure and rewrites the results file.
func (r *Renderer) AddError(name string, err error) error {
	r.entries[name] = FileEntry{Error: err.Error()}
	return r.save()
}

func (r *Renderer) save() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// PrintSummary writes a human-readable batch summary to w.
func (r *Renderer) PrintSummary(w io.Writer) {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := r.entries[name]
		if entry.Error != "" {
			fmt.Fprintf(w, "%-40s ERROR: %s\n", name, entry.Error)
			continue
		}
		switch {
		case entry.BureauParameters != nil:
			found := 0
			for _, v := range entry.BureauParameters {
				if v.Confidence > 0 {
					found++
				}
			}
			fmt.Fprintf(w, "%-40s bureau  %d/%d fields  confidence %.2f\n",
				name, found, len(entry.BureauParameters), entry.OverallConfidence)
		default:
			fmt.Fprintf(w, "%-40s gst     %d rows  confidence %.2f\n",
				name, len(entry.GstSales), entry.OverallConfidence)
		}
	}
	fmt.Fprintf(w, "\nResults saved to %s\n", r.path)
}
