// Package agent invokes language-model providers on behalf of bots: it
// constructs provider clients, caches one agent per bot+model, condenses
// long histories, and degrades to canned responses on failure.
package agent

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/parleyhq/parley/internal/models"
)

// ProviderConfig is a closed set of provider kinds, each carrying its own
// strongly-typed credential payload. Adding a provider means adding a
// variant here plus a case in newClientConfig.
type ProviderConfig interface {
	providerConfig()
}

// OpenAIProvider is the plain hosted OpenAI API.
type OpenAIProvider struct {
	APIKey string
}

// CompatibleProvider is any OpenAI-compatible endpoint (deepseek, ollama,
// vllm, ...) addressed by base URL.
type CompatibleProvider struct {
	APIKey  string
	BaseURL string
}

// AzureProvider is Azure OpenAI, which needs explicit endpoint and API
// version wiring instead of a plain provider name.
type AzureProvider struct {
	APIKey     string
	Endpoint   string
	APIVersion string
}

func (OpenAIProvider) providerConfig()     {}
func (CompatibleProvider) providerConfig() {}
func (AzureProvider) providerConfig()      {}

// azureExtras is the provider-specific JSON stored in Bot.Config.
type azureExtras struct {
	AzureEndpoint string `json:"azure_endpoint"`
	APIVersion    string `json:"api_version"`
}

const defaultAzureAPIVersion = "2024-07-01-preview"

// ProviderFromBot resolves a bot's stored configuration into a typed
// provider variant. Missing credentials are configuration errors caught
// here, before any client is built.
func ProviderFromBot(bot *models.Bot) (ProviderConfig, error) {
	switch bot.Provider {
	case "openai":
		if bot.APIKey == "" {
			return nil, fmt.Errorf("agent: bot %s: openai provider requires an api key", bot.Name)
		}
		return OpenAIProvider{APIKey: bot.APIKey}, nil

	case "azure":
		var extras azureExtras
		if bot.Config != "" {
			if err := json.Unmarshal([]byte(bot.Config), &extras); err != nil {
				return nil, fmt.Errorf("agent: bot %s: parse provider config: %w", bot.Name, err)
			}
		}
		endpoint := extras.AzureEndpoint
		if endpoint == "" {
			endpoint = bot.APIBaseURL
		}
		if endpoint == "" {
			return nil, fmt.Errorf("agent: bot %s: azure provider requires an endpoint", bot.Name)
		}
		if bot.APIKey == "" {
			return nil, fmt.Errorf("agent: bot %s: azure provider requires an api key", bot.Name)
		}
		version := extras.APIVersion
		if version == "" {
			version = defaultAzureAPIVersion
		}
		return AzureProvider{APIKey: bot.APIKey, Endpoint: endpoint, APIVersion: version}, nil

	case "":
		return nil, fmt.Errorf("agent: bot %s: provider is required", bot.Name)

	default:
		// OpenAI-compatible providers are addressed by base URL.
		if bot.APIBaseURL == "" {
			return nil, fmt.Errorf("agent: bot %s: provider %q requires api_base_url", bot.Name, bot.Provider)
		}
		return CompatibleProvider{APIKey: bot.APIKey, BaseURL: bot.APIBaseURL}, nil
	}
}

// newClientConfig maps a provider variant to a go-openai client config.
func newClientConfig(p ProviderConfig) openai.ClientConfig {
	switch v := p.(type) {
	case OpenAIProvider:
		return openai.DefaultConfig(v.APIKey)
	case CompatibleProvider:
		cfg := openai.DefaultConfig(v.APIKey)
		cfg.BaseURL = v.BaseURL
		return cfg
	case AzureProvider:
		cfg := openai.DefaultAzureConfig(v.APIKey, v.Endpoint)
		cfg.APIVersion = v.APIVersion
		return cfg
	default:
		return openai.DefaultConfig("")
	}
}

// NewClient builds a go-openai client for a provider variant.
func NewClient(p ProviderConfig) *openai.Client {
	return openai.NewClientWithConfig(newClientConfig(p))
}
