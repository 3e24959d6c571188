package provider

import (
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	AnthropicDefaultModel = anthropic.ModelClaudeSonnet4_5
	AnthropicAPIVersion   = "2023-06-01"
	AnthropicKeyEnv       = "ANTHROPIC_API_KEY"
	AnthropicBaseURLEnv   = "ANTHROPIC_BASE_URL"
)

// NewAnthropicClient returns a client with SDK retries disabled. Empty
// apiKey and baseURL fall back to the SDK's environment lookup.
func NewAnthropicClient(apiKey, baseURL string, timeout time.Duration, hc *http.Client) *anthropic.Client {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if hc != nil {
		opts = append(opts, option.WithHTTPClient(hc))
	}
	c := anthropic.NewClient(opts...)
	return &c
}
