package provider

import (
	"net/http"
	"os"
	"time"
)

const (
	GoogleDefaultModel   = "gemini-2.0-flash"
	GoogleDefaultBaseURL = "https://generativelanguage.googleapis.com"
	GoogleKeyEnv         = "GOOGLE_API_KEY"
	GoogleBaseURLEnv     = "GOOGLE_BASE_URL"
)

// GoogleClient carries what the generateContent REST call needs. There is
// no SDK client; requests go through HTTP directly.
type GoogleClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewGoogleClient resolves empty apiKey and baseURL from the environment.
func NewGoogleClient(apiKey, baseURL string, timeout time.Duration, hc *http.Client) *GoogleClient {
	if apiKey == "" {
		apiKey = os.Getenv(GoogleKeyEnv)
	}
	if baseURL == "" {
		baseURL = os.Getenv(GoogleBaseURLEnv)
	}
	if baseURL == "" {
		baseURL = GoogleDefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	if timeout > 0 {
		c := *hc
		c.Timeout = timeout
		hc = &c
	}
	return &GoogleClient{APIKey: apiKey, BaseURL: baseURL, HTTP: hc}
}
