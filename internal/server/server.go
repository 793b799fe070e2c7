// Package server exposes the extraction pipeline over HTTP: a health
// probe plus one upload endpoint per document type.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/akulkarni/docintel/internal/llm"
	"github.com/akulkarni/docintel/internal/model"
	"github.com/akulkarni/docintel/internal/pipeline"
)

// Engine is the slice of the pipeline the HTTP layer needs.
type Engine interface {
	ExtractFile(ctx context.Context, path string, docType string) (*model.DocumentResult, error)
	Gateway() llm.Gateway
}

// ExtractionResponse is the JSON body returned by every extract endpoint.
type ExtractionResponse struct {
	BureauParameters map[string]model.ExtractedValue `json:"bureau_parameters,omitempty"`
	GstSales         []model.SalesRow                `json:"gst_sales,omitempty"`
	OverallScore     float64                         `json:"overall_confidence_score"`
	Status           string                          `json:"status"`
	Message          string                          `json:"message,omitempty"`
}

// HealthResponse reports service and model availability.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	LLMStatus string `json:"llm_status"`
}

// Server serves the extraction API.
type Server struct {
	engine Engine
	config model.ServerConfig
	logger *slog.Logger
}

// New creates a server around an engine.
func New(engine Engine, cfg model.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	return &Server{engine: engine, config: cfg, logger: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/extract/bureau", s.handleExtract(pipeline.DocTypeBureau))
	mux.HandleFunc("POST /api/extract/gst", s.handleExtract(pipeline.DocTypeGST))
	mux.HandleFunc("POST /api/extract/auto", s.handleExtract(pipeline.DocTypeAuto))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "docintel",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":         "/health",
			"extract_bureau": "/api/extract/bureau",
			"extract_gst":    "/api/extract/gst",
			"extract_auto":   "/api/extract/auto",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	llmStatus := "unavailable"
	status := "degraded"
	if s.engine.Gateway().IsAvailable(r.Context()) {
		llmStatus = "available"
		status = "healthy"
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Message:   fmt.Sprintf("gateway %s is %s", s.engine.Gateway().Name(), llmStatus),
		LLMStatus: llmStatus,
	})
}

func (s *Server) handleExtract(docType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
			return
		}
		defer func() { _ = file.Close() }()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			writeError(w, http.StatusBadRequest, "only PDF files are supported")
			return
		}

		path, err := s.saveUpload(file, header.Filename)
		if err != nil {
			s.logger.Error("upload save failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		defer func() { _ = os.Remove(path) }()

		result, err := s.engine.ExtractFile(r.Context(), path, docType)
		if err != nil {
			if errors.Is(err, pipeline.ErrUnknownDocType) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.logger.Error("extraction failed", "file", header.Filename, "type", docType, "error", err)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("extraction failed: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, ExtractionResponse{
			BureauParameters: result.BureauParameters,
			GstSales:         result.GstSales,
			OverallScore:     result.OverallConfidence,
			Status:           "success",
		})
	}
}

// saveUpload spools the uploaded document to a temp file, keeping the
// original name's detectable markers in the temp name for auto-detection.
func (s *Server) saveUpload(file io.Reader, name string) (string, error) {
	tmp, err := os.CreateTemp("", "docintel-*-"+sanitizeName(name))
	if err != nil {
		return "", err
	}
	defer func() { _ = tmp.Close() }()

	if _, err := io.Copy(tmp, file); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, ExtractionResponse{Status: "error", Message: message})
}
