package model

import "time"

// Config holds the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Index      IndexConfig      `yaml:"index" mapstructure:"index"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the language model gateway.
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds, per invoke
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature       float64 `yaml:"temperature" mapstructure:"temperature"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// IndexConfig configures the embedding backend of the per-document
// semantic index.
type IndexConfig struct {
	Embedder   string `yaml:"embedder" mapstructure:"embedder"` // ollama, openai
	EmbedModel string `yaml:"embed_model" mapstructure:"embed_model"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
}

// ExtractionConfig configures document inputs and the schema source.
type ExtractionConfig struct {
	ParameterFile string `yaml:"parameter_file" mapstructure:"parameter_file"`
	ScoreField    string `yaml:"score_field" mapstructure:"score_field"`
	BureauDir     string `yaml:"bureau_dir" mapstructure:"bureau_dir"`
	GSTDir        string `yaml:"gst_dir" mapstructure:"gst_dir"`
}

// CacheConfig configures the per-file result cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// OutputConfig configures result rendering.
type OutputConfig struct {
	ResultsFile string `yaml:"results_file" mapstructure:"results_file"`
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults: a local Ollama model for both
// generation and embeddings, caching on, and the conventional data layout.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "ollama",
			Model:             "mistral",
			Timeout:           120,
			MaxTokens:         2000,
			Temperature:       0.1,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Index: IndexConfig{
			Embedder:   "ollama",
			EmbedModel: "nomic-embed-text",
		},
		Extraction: ExtractionConfig{
			ParameterFile: "data/bureau_parameters.xlsx",
			ScoreField:    "CIBIL Score",
			BureauDir:     "data/Bureau_Reports",
			GSTDir:        "data/GST_3B_Returns",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			MaxUploadBytes: 32 << 20,
		},
		Output: OutputConfig{
			ResultsFile: "extraction_results.json",
		},
	}
}
