package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akulkarni/docintel/internal/model"
)

// Extractor defines the interface for extracting one document file
type Extractor interface {
	ExtractFile(ctx context.Context, path string, docType string) (*model.DocumentResult, error)
}

// ExtractJob represents one document extraction job
type ExtractJob struct {
	Path      string
	DocType   string
	Extractor Extractor
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	result, err := j.Extractor.ExtractFile(ctx, j.Path, j.DocType)
	return &FileResult{
		Path:    j.Path,
		DocType: j.DocType,
		Result:  result,
		Error:   err,
	}
}

// FileResult represents the result of one document extraction job
type FileResult struct {
	Path    string
	DocType string
	Result  *model.DocumentResult
	Error   error
}

// GetError returns the error from the extraction result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple documents concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessFiles processes the given document paths concurrently. Results
// are sorted by path so batch output is stable regardless of scheduling.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, docType string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submission must not outpace result collection: the pool's channels
	// hold only a few entries, so Wait drains while this goroutine feeds.
	go func() {
		for _, path := range paths {
			pool.Submit(&ExtractJob{
				Path:      path,
				DocType:   docType,
				Extractor: b.extractor,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	fileResults := make([]*FileResult, len(results))
	for i, result := range results {
		fileResults[i] = result.(*FileResult)
	}
	sort.Slice(fileResults, func(i, j int) bool {
		return fileResults[i].Path < fileResults[j].Path
	})

	return fileResults
}

// ProcessDir processes every PDF in a directory concurrently
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string, docType string) ([]*FileResult, error) {
	paths, err := ListPDFs(dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return b.ProcessFiles(ctx, paths, docType), nil
}

// ListPDFs returns the sorted PDF paths directly under dir
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
