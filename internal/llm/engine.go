// Package llm dispatches one screen's worth of content to a vision model
// and invokes the single tool the model chooses.
//
// Each vendor engine builds its own request and parses its own response;
// tool lookup, argument validation and invocation are shared.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/petasbytes/ghostwriter/tools"
)

// Vendor names a model API family.
type Vendor string

const (
	Anthropic Vendor = "anthropic"
	OpenAI    Vendor = "openai"
	Google    Vendor = "google"
)

// DefaultMaxTokens bounds the response length when Session.MaxTokens is unset.
const DefaultMaxTokens = 5000

// ParseVendor accepts a vendor name case-insensitively.
func ParseVendor(s string) (Vendor, error) {
	switch v := Vendor(strings.ToLower(strings.TrimSpace(s))); v {
	case Anthropic, OpenAI, Google:
		return v, nil
	}
	return "", fmt.Errorf("unknown engine %q (want anthropic, openai or google)", s)
}

// VendorForModel infers the vendor from a model name.
func VendorForModel(model string) (Vendor, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude"):
		return Anthropic, nil
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "chatgpt"),
		strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return OpenAI, nil
	case strings.HasPrefix(m, "gemini"):
		return Google, nil
	}
	return "", fmt.Errorf("cannot infer engine from model %q; set engine explicitly", model)
}

// Session is the fixed per-engine connection setup.
type Session struct {
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int64
}

// Call describes the tool invocation performed by Execute.
type Call struct {
	Tool      string
	Arguments json.RawMessage
	Result    string
}

// Engine accumulates user content and resolves it into one tool call.
type Engine interface {
	Vendor() Vendor
	AddText(text string)
	AddImage(base64PNG string)
	RegisterTool(def tools.ToolDefinition) error
	ClearContent()
	// Execute sends the buffered content, invokes the chosen tool's Function
	// exactly once and returns the call. The content buffer is left intact.
	Execute(ctx context.Context) (Call, error)
}

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for vendor requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds the engine for vendor.
func New(vendor Vendor, s Session, opts ...Option) (Engine, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	switch vendor {
	case Anthropic:
		return newAnthropicEngine(s, o), nil
	case OpenAI:
		return newOpenAIEngine(s, o), nil
	case Google:
		return newGoogleEngine(s, o), nil
	}
	return nil, fmt.Errorf("unknown engine %q", vendor)
}
