// Package index provides the ephemeral per-document semantic index. An
// Index lives for exactly one extraction call: Build, some Queries, then
// Teardown. Callers defer Teardown so the collection is released on every
// exit path.
package index

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/akulkarni/docintel/internal/model"
)

const collectionName = "document"

// Index is an in-process vector index over one document's chunks.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embed      chromem.EmbeddingFunc
}

// New creates an empty index using the given embedding function.
func New(embed chromem.EmbeddingFunc) *Index {
	return &Index{
		db:    chromem.NewDB(),
		embed: embed,
	}
}

// Build indexes the chunks into a fresh collection. Building twice on the
// same Index replaces the previous collection.
func (ix *Index) Build(ctx context.Context, chunks []model.DocumentChunk) error {
	if ix.collection != nil {
		ix.Teardown()
	}

	collection, err := ix.db.CreateCollection(collectionName, map[string]string{"hnsw:space": "cosine"}, ix.embed)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	ix.collection = collection

	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("chunk-%d", i),
			Content: chunk.Text,
			Metadata: map[string]string{
				"page":   strconv.Itoa(chunk.PageNumber),
				"source": chunk.SourceFile,
			},
		})
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Query returns up to k chunks nearest to the query text, most similar
// first. k is clamped to the collection size; an unbuilt or empty index
// returns no results rather than an error.
func (ix *Index) Query(ctx context.Context, query string, k int) ([]model.DocumentChunk, error) {
	if ix.collection == nil {
		return nil, nil
	}
	if n := ix.collection.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := ix.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	chunks := make([]model.DocumentChunk, 0, len(results))
	for _, res := range results {
		page, _ := strconv.Atoi(res.Metadata["page"])
		chunks = append(chunks, model.DocumentChunk{
			Text:       res.Content,
			PageNumber: page,
			SourceFile: res.Metadata["source"],
		})
	}
	return chunks, nil
}

// Teardown deletes the collection. Safe to call multiple times.
func (ix *Index) Teardown() {
	if ix.collection == nil {
		return
	}
	_ = ix.db.DeleteCollection(collectionName)
	ix.collection = nil
}
