package model

// DocumentChunk is one page's extracted text plus positional metadata.
// Chunks are produced once per page by the loader and owned by the
// extraction call that created them.
type DocumentChunk struct {
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"` // 1-based
	SourceFile string `json:"source_file"`
}

// SchemaField names one value the bureau pipeline must produce. The
// description is fed verbatim to the language model.
type SchemaField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
