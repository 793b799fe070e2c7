package index

import (
	"github.com/philippgille/chromem-go"

	"github.com/akulkarni/docintel/internal/model"
)

// NewEmbeddingFunc selects the embedding backend from configuration.
// Ollama is the default; an empty base URL falls through to chromem's own
// localhost default.
func NewEmbeddingFunc(cfg model.IndexConfig) chromem.EmbeddingFunc {
	switch cfg.Embedder {
	case "openai":
		return chromem.NewEmbeddingFuncOpenAI(cfg.APIKey, chromem.EmbeddingModelOpenAI3Small)
	default:
		embedModel := cfg.EmbedModel
		if embedModel == "" {
			embedModel = "nomic-embed-text"
		}
		return chromem.NewEmbeddingFuncOllama(embedModel, cfg.BaseURL)
	}
}
