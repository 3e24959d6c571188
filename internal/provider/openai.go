package provider

import (
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	OpenAIDefaultModel = openai.ChatModelGPT4oMini
	OpenAIKeyEnv       = "OPENAI_API_KEY"
	OpenAIBaseURLEnv   = "OPENAI_BASE_URL"
)

// NewOpenAIClient mirrors NewAnthropicClient for the Chat Completions API.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration, hc *http.Client) *openai.Client {
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
	c := openai.NewClient(opts...)
	return &c
}
