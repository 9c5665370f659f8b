package llm

// ProviderType identifies a completion backend.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
	ProviderMock      ProviderType = "mock"
)

// ProviderConfig configures a completion provider.
type ProviderConfig struct {
	Type ProviderType `yaml:"type" json:"type"`

	// Model is the provider-specific model identifier.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// APIKey falls back to the provider's conventional environment variable
	// when empty (OPENAI_API_KEY, ANTHROPIC_API_KEY).
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint; for ollama it defaults to
	// the local server.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}
