package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/akulkarni/docintel/internal/cache"
	"github.com/akulkarni/docintel/internal/extract"
	"github.com/akulkarni/docintel/internal/index"
	"github.com/akulkarni/docintel/internal/llm"
	"github.com/akulkarni/docintel/internal/loader"
	"github.com/akulkarni/docintel/internal/model"
)

// Document types accepted by ExtractFile.
const (
	DocTypeBureau = "bureau"
	DocTypeGST    = "gst"
	DocTypeAuto   = "auto"
)

// ErrUnknownDocType reports a document type that is neither recognized nor
// detectable from the file name. Callers match it with errors.Is to turn
// it into a client error rather than a pipeline failure.
var ErrUnknownDocType = errors.New("unknown document type")

// Engine wires the extraction pipeline together: gateway, schema, chunker,
// per-call index factory and the result cache. It is constructed once at
// process start and shared read-only across calls; each extraction call
// owns its chunk list and semantic index.
type Engine struct {
	config  *model.Config
	logger  *slog.Logger
	gateway llm.Gateway
	chunker loader.Chunker
	bureau  *extract.BureauExtractor
	sales   *extract.SalesExtractor
	cache   cache.Cache
}

// NewEngine builds an engine from configuration. It fails only when the
// gateway cannot be constructed or the parameter schema cannot be loaded;
// per-document failures are handled at extraction time.
func NewEngine(cfg *model.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	gateway, err := llm.NewGateway(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}
	if cfg.LLM.RequestsPerSecond > 0 {
		gateway = llm.NewRateLimited(gateway, cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
	}

	schema, err := loader.LoadParameters(cfg.Extraction.ParameterFile, logger)
	if err != nil {
		return nil, fmt.Errorf("load parameter schema: %w", err)
	}

	embed := index.NewEmbeddingFunc(cfg.Index)
	newIndex := func() extract.SemanticIndex { return index.New(embed) }

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Engine{
		config:  cfg,
		logger:  logger,
		gateway: gateway,
		chunker: loader.NewPDFChunker(logger),
		bureau:  extract.NewBureauExtractor(schema, cfg.Extraction.ScoreField, gateway, newIndex, logger),
		sales:   extract.NewSalesExtractor(gateway, logger),
		cache:   resultCache,
	}, nil
}

// Gateway exposes the configured gateway for availability probes.
func (e *Engine) Gateway() llm.Gateway {
	return e.gateway
}

// ExtractBureau runs the bureau pipeline over the chunks of one PDF.
func (e *Engine) ExtractBureau(ctx context.Context, path string) (*model.DocumentResult, error) {
	chunks, err := e.chunker.Chunks(path)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}

	result := &model.DocumentResult{
		BureauParameters: e.bureau.Extract(ctx, chunks),
	}
	result.ComputeOverallConfidence()
	return result, nil
}

// ExtractGST runs the sales-row pipeline over the chunks of one PDF.
func (e *Engine) ExtractGST(ctx context.Context, path string) (*model.DocumentResult, error) {
	chunks, err := e.chunker.Chunks(path)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}

	result := &model.DocumentResult{
		GstSales: e.sales.Extract(ctx, chunks),
	}
	result.ComputeOverallConfidence()
	return result, nil
}

// ExtractFile extracts one document, dispatching on docType and consulting
// the result cache when enabled. It satisfies the batch worker's Extractor
// contract.
func (e *Engine) ExtractFile(ctx context.Context, path string, docType string) (*model.DocumentResult, error) {
	if docType == DocTypeAuto {
		detected, err := DetectType(path)
		if err != nil {
			return nil, err
		}
		docType = detected
	}

	key := e.cacheKey(docType, path)
	if key != "" {
		if cached, found := e.cache.Get(key); found {
			var result model.DocumentResult
			if err := json.Unmarshal(cached, &result); err == nil {
				e.logger.Debug("result cache hit", "file", filepath.Base(path), "type", docType)
				return &result, nil
			}
			_ = e.cache.Delete(key)
		}
	}

	var result *model.DocumentResult
	var err error
	switch docType {
	case DocTypeBureau:
		result, err = e.ExtractBureau(ctx, path)
	case DocTypeGST:
		result, err = e.ExtractGST(ctx, path)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDocType, docType)
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		if encoded, err := json.Marshal(result); err == nil {
			_ = e.cache.Set(key, encoded, e.config.Cache.TTL)
		}
	}
	return result, nil
}

// cacheKey derives the content-addressed cache key for a document, or ""
// when caching is disabled or the file cannot be read.
func (e *Engine) cacheKey(docType string, path string) string {
	if e.cache == nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return cache.ResultKey(docType, data)
}

// DetectType guesses the document type from the file name. Names carrying
// no recognizable marker return an error so the caller can demand an
// explicit type.
func DetectType(path string) (string, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "gst") || strings.Contains(name, "3b"):
		return DocTypeGST, nil
	case strings.Contains(name, "bureau") || strings.Contains(name, "crif") || strings.Contains(name, "report"):
		return DocTypeBureau, nil
	default:
		return "", fmt.Errorf("%w: could not auto-detect from file name %q", ErrUnknownDocType, filepath.Base(path))
	}
}
