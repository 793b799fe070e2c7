package llm

import "context"

// Gateway sends a prompt to a generative model and returns its raw text.
// No schema is enforced on the return value; structure recovery happens in
// the extraction layer.
type Gateway interface {
	// Name returns the provider name.
	Name() string

	// Invoke sends one prompt and returns the model's raw text response.
	Invoke(ctx context.Context, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible.
	IsAvailable(ctx context.Context) bool
}

// systemPrompt anchors every provider on the same extraction role.
const systemPrompt = "You are a precise financial document data extraction assistant. " +
	"Follow the extraction rules in the prompt exactly and respond with JSON only."

// Config holds gateway configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for one model invocation, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for generation; extraction wants it low
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "ollama",
		Model:       "mistral",
		Timeout:     120,
		MaxTokens:   2000,
		Temperature: 0.1,
	}
}
