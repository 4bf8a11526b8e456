// Package llm provides the enrichment provider abstraction and its
// configuration. One provider implementation exists today (Gemini); others
// plug in behind the same Client interface.
package llm

import "fmt"

// Provider identifies an enrichment backend.
type Provider string

// Supported providers. OpenAI and Anthropic are reserved for future
// implementations behind the same interface.
const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the provider selection and model name for a run.
type Config struct {
	Provider Provider
	Model    string
}

// DefaultConfig returns the default provider configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    "gemini-2.5-flash",
	}
}

// Label returns the provider/model label recorded alongside persisted
// progress and output records.
func (c *Config) Label() string {
	return fmt.Sprintf("%s/%s", c.Provider, c.Model)
}
