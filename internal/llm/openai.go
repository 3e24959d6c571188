package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/petasbytes/ghostwriter/internal/provider"
	"github.com/petasbytes/ghostwriter/memory"
)

// OpenAIEngine talks to the Chat Completions API. Tool arguments arrive as
// a JSON-encoded string.
type OpenAIEngine struct {
	base
	client *openai.Client
}

func newOpenAIEngine(s Session, o options) *OpenAIEngine {
	if s.Model == "" {
		s.Model = string(provider.OpenAIDefaultModel)
	}
	hc := withPayloadTransport(o.httpClient, OpenAI)
	return &OpenAIEngine{
		base:   newBase(OpenAI, s, o),
		client: provider.NewOpenAIClient(s.APIKey, s.BaseURL, s.Timeout, hc),
	}
}

func (e *OpenAIEngine) Execute(ctx context.Context) (Call, error) {
	return e.execute(ctx, e.send)
}

func (e *OpenAIEngine) params() openai.ChatCompletionNewParams {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, e.content.Len())
	for _, b := range e.content.Blocks() {
		switch b.Kind {
		case memory.KindText:
			parts = append(parts, openai.TextContentPart(b.Text))
		case memory.KindImage:
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: "data:image/png;base64," + b.Image,
			}))
		}
	}

	toolParams := make([]openai.ChatCompletionToolParam, 0, len(e.tools))
	for _, t := range e.tools {
		toolParams = append(toolParams, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.def.Name,
				Description: openai.String(t.def.Description),
				Parameters:  openai.FunctionParameters(t.params),
			},
		})
	}

	return openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.session.Model),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		Tools:               toolParams,
		ToolChoice:          openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("required")},
		ParallelToolCalls:   openai.Bool(false),
		MaxCompletionTokens: openai.Int(e.session.MaxTokens),
	}
}

func (e *OpenAIEngine) send(ctx context.Context) (toolCall, error) {
	var res *http.Response
	resp, err := e.client.Chat.Completions.New(ctx, e.params(), option.WithResponseInto(&res))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return toolCall{}, &TransportError{Vendor: OpenAI, StatusCode: apiErr.StatusCode, Err: err}
		}
		return toolCall{}, sdkFailure(OpenAI, res, err)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return toolCall{}, &ProtocolError{Vendor: OpenAI, Kind: NoToolCalled}
	}
	fn := resp.Choices[0].Message.ToolCalls[0].Function
	return toolCall{Name: fn.Name, Arguments: json.RawMessage(fn.Arguments)}, nil
}
