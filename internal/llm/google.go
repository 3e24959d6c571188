package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/provider"
	"github.com/petasbytes/ghostwriter/internal/telemetry"
	"github.com/petasbytes/ghostwriter/memory"
)

// GoogleEngine talks to the Gemini generateContent REST endpoint.
type GoogleEngine struct {
	base
	client *provider.GoogleClient
}

func newGoogleEngine(s Session, o options) *GoogleEngine {
	if s.Model == "" {
		s.Model = provider.GoogleDefaultModel
	}
	hc := withPayloadTransport(o.httpClient, Google)
	return &GoogleEngine{
		base:   newBase(Google, s, o),
		client: provider.NewGoogleClient(s.APIKey, s.BaseURL, s.Timeout, hc),
	}
}

func (e *GoogleEngine) Execute(ctx context.Context) (Call, error) {
	return e.execute(ctx, e.send)
}

// body builds the generateContent request document.
func (e *GoogleEngine) body() (string, error) {
	doc := `{"contents":[{"role":"user","parts":[]}]}`
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}
	setRaw := func(path, raw string) {
		if err == nil {
			doc, err = sjson.SetRaw(doc, path, raw)
		}
	}

	for i, b := range e.content.Blocks() {
		switch b.Kind {
		case memory.KindText:
			set(fmt.Sprintf("contents.0.parts.%d.text", i), b.Text)
		case memory.KindImage:
			set(fmt.Sprintf("contents.0.parts.%d.inline_data.mime_type", i), "image/png")
			set(fmt.Sprintf("contents.0.parts.%d.inline_data.data", i), b.Image)
		}
	}

	for i, t := range e.tools {
		params, mErr := json.Marshal(googleSchema(t.params))
		if mErr != nil {
			return "", mErr
		}
		prefix := fmt.Sprintf("tools.0.function_declarations.%d.", i)
		set(prefix+"name", t.def.Name)
		set(prefix+"description", t.def.Description)
		setRaw(prefix+"parameters", string(params))
	}
	set("tool_config.function_calling_config.mode", "ANY")
	set("generationConfig.maxOutputTokens", e.session.MaxTokens)
	return doc, err
}

func (e *GoogleEngine) endpoint() string {
	base := strings.TrimRight(e.client.BaseURL, "/")
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, url.PathEscape(e.session.Model))
}

func (e *GoogleEngine) send(ctx context.Context) (toolCall, error) {
	doc, err := e.body()
	if err != nil {
		return toolCall{}, fmt.Errorf("google: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint(), bytes.NewReader([]byte(doc)))
	if err != nil {
		return toolCall{}, &TransportError{Vendor: Google, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.client.APIKey)

	resp, err := e.client.HTTP.Do(req)
	if err != nil {
		return toolCall{}, &TransportError{Vendor: Google, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return toolCall{}, &TransportError{Vendor: Google, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return toolCall{}, &TransportError{Vendor: Google, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	return parseGoogleResponse(ctx, raw)
}

// parseGoogleResponse returns the first functionCall part of the first
// candidate.
func parseGoogleResponse(ctx context.Context, raw []byte) (toolCall, error) {
	if !gjson.ValidBytes(raw) {
		return toolCall{}, &ProtocolError{Vendor: Google, Kind: MalformedResponse, Err: errors.New("response is not JSON")}
	}
	var tc toolCall
	found := false
	gjson.GetBytes(raw, "candidates.0.content.parts").ForEach(func(_, part gjson.Result) bool {
		if t := part.Get("text"); t.Exists() {
			telemetry.EmitTextFeatures(ctx, "model", metrics.MeasureText(t.String(), nil))
		}
		fc := part.Get("functionCall")
		if !fc.Exists() {
			return true
		}
		tc.Name = fc.Get("name").String()
		if args := fc.Get("args"); args.Exists() {
			tc.Arguments = json.RawMessage(args.Raw)
		}
		found = true
		return false
	})
	if !found {
		return toolCall{}, &ProtocolError{Vendor: Google, Kind: NoToolCalled}
	}
	return tc, nil
}

// googleSchema copies a JSON Schema object without the keywords the Gemini
// function declaration format rejects.
func googleSchema(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "additionalProperties" || k == "$schema" || k == "$id" {
				continue
			}
			out[k] = googleSchema(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = googleSchema(val)
		}
		return out
	default:
		return v
	}
}
