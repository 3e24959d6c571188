package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/provider"
	"github.com/petasbytes/ghostwriter/internal/telemetry"
	"github.com/petasbytes/ghostwriter/memory"
)

// AnthropicEngine talks to the Messages API.
type AnthropicEngine struct {
	base
	client *anthropic.Client
}

func newAnthropicEngine(s Session, o options) *AnthropicEngine {
	if s.Model == "" {
		s.Model = string(provider.AnthropicDefaultModel)
	}
	hc := withPayloadTransport(o.httpClient, Anthropic)
	return &AnthropicEngine{
		base:   newBase(Anthropic, s, o),
		client: provider.NewAnthropicClient(s.APIKey, s.BaseURL, s.Timeout, hc),
	}
}

func (e *AnthropicEngine) Execute(ctx context.Context) (Call, error) {
	return e.execute(ctx, e.send)
}

func (e *AnthropicEngine) params() anthropic.MessageNewParams {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, e.content.Len())
	for _, b := range e.content.Blocks() {
		switch b.Kind {
		case memory.KindText:
			blocks = append(blocks, anthropic.NewTextBlock(b.Text))
		case memory.KindImage:
			blocks = append(blocks, anthropic.NewImageBlockBase64("image/png", b.Image))
		}
	}

	toolParams := make([]anthropic.ToolUnionParam, 0, len(e.tools))
	for _, t := range e.tools {
		toolParams = append(toolParams, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.def.Name,
			Description: anthropic.String(t.def.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: t.params["properties"],
				Required:   requiredList(t.params),
			},
		}})
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(e.session.Model),
		MaxTokens: e.session.MaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Tools:     toolParams,
		ToolChoice: anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{
			DisableParallelToolUse: anthropic.Bool(true),
		}},
	}
}

func (e *AnthropicEngine) send(ctx context.Context) (toolCall, error) {
	var res *http.Response
	msg, err := e.client.Messages.New(ctx, e.params(), option.WithResponseInto(&res))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return toolCall{}, &TransportError{Vendor: Anthropic, StatusCode: apiErr.StatusCode, Err: err}
		}
		return toolCall{}, sdkFailure(Anthropic, res, err)
	}

	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			e.logger.Debug("model text", "bytes", len(v.Text))
			telemetry.EmitTextFeatures(ctx, "model", metrics.MeasureText(v.Text, nil))
		case anthropic.ToolUseBlock:
			return toolCall{Name: v.Name, Arguments: json.RawMessage(v.Input)}, nil
		}
	}
	return toolCall{}, &ProtocolError{Vendor: Anthropic, Kind: NoToolCalled}
}
