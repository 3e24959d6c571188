package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/telemetry"
	"github.com/petasbytes/ghostwriter/memory"
	"github.com/petasbytes/ghostwriter/tools"
)

// registeredTool pairs a definition with its vendor-neutral parameter
// object and compiled validator.
type registeredTool struct {
	def    tools.ToolDefinition
	params map[string]any
	schema *jsonschema.Schema
}

// base holds the state every vendor engine shares.
type base struct {
	vendor  Vendor
	session Session
	logger  *slog.Logger
	content memory.Content
	tools   []registeredTool
}

func newBase(v Vendor, s Session, o options) base {
	return base{vendor: v, session: s, logger: o.logger.With("vendor", string(v))}
}

func (b *base) Vendor() Vendor { return b.vendor }

func (b *base) AddText(text string) { b.content.AddText(text) }

func (b *base) AddImage(base64PNG string) { b.content.AddImage(base64PNG) }

func (b *base) ClearContent() { b.content.Clear() }

// RegisterTool compiles the tool's input schema. Names must be unique.
func (b *base) RegisterTool(def tools.ToolDefinition) error {
	if def.Name == "" || def.Function == nil {
		return fmt.Errorf("register tool: name and function are required")
	}
	if b.lookup(def.Name) != nil {
		return fmt.Errorf("register tool %s: already registered", def.Name)
	}
	raw, err := def.SchemaJSON()
	if err != nil {
		return fmt.Errorf("register tool %s: %w", def.Name, err)
	}
	params, err := def.SchemaMap()
	if err != nil {
		return fmt.Errorf("register tool %s: %w", def.Name, err)
	}

	url := "mem://tools/" + def.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("register tool %s: %w", def.Name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("register tool %s: compile schema: %w", def.Name, err)
	}

	b.tools = append(b.tools, registeredTool{def: def, params: params, schema: schema})
	return nil
}

func (b *base) lookup(name string) *registeredTool {
	for i := range b.tools {
		if b.tools[i].def.Name == name {
			return &b.tools[i]
		}
	}
	return nil
}

// toolCall is a vendor response reduced to the first tool invocation.
type toolCall struct {
	Name      string
	Arguments json.RawMessage
}

// execute runs one request via send and dispatches the resulting call.
func (b *base) execute(ctx context.Context, send func(context.Context) (toolCall, error)) (Call, error) {
	cycleID, _ := telemetry.CycleIDFromContext(ctx)
	texts, images, textBytes := b.content.Summary()
	b.logger.Debug("dispatch", "model", b.session.Model, "texts", texts, "images", images, "text_bytes", textBytes)

	start := time.Now()
	tc, err := send(ctx)
	elapsed := time.Since(start)
	metrics.ObserveDispatch(string(b.vendor), elapsed)

	fields := map[string]any{
		"cycle_id":    cycleID,
		"vendor":      string(b.vendor),
		"model":       b.session.Model,
		"duration_ms": elapsed.Milliseconds(),
		"tool":        tc.Name,
		"error":       nil,
	}
	if err != nil {
		fields["error"] = Kind(err)
		telemetry.Emit("dispatch", fields)
		return Call{}, err
	}
	telemetry.Emit("dispatch", fields)

	return b.dispatch(ctx, tc)
}

// dispatch resolves the tool, validates its arguments and invokes it once.
func (b *base) dispatch(ctx context.Context, tc toolCall) (Call, error) {
	rt := b.lookup(tc.Name)
	if rt == nil {
		metrics.ToolCalls.WithLabelValues(tc.Name, "unknown").Inc()
		return Call{}, &ProtocolError{Vendor: b.vendor, Kind: UnknownTool, Tool: tc.Name}
	}

	args := tc.Arguments
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		metrics.ToolCalls.WithLabelValues(tc.Name, "invalid").Inc()
		return Call{}, &ProtocolError{Vendor: b.vendor, Kind: InvalidArguments, Tool: tc.Name, Err: err}
	}
	if err := rt.schema.Validate(v); err != nil {
		metrics.ToolCalls.WithLabelValues(tc.Name, "invalid").Inc()
		return Call{}, &ProtocolError{Vendor: b.vendor, Kind: InvalidArguments, Tool: tc.Name, Err: err}
	}

	call := Call{Tool: tc.Name, Arguments: args}
	res, err := b.execTool(ctx, rt.def, args)
	call.Result = res
	if err != nil {
		return call, fmt.Errorf("tool %s: %w", tc.Name, err)
	}
	return call, nil
}

func (b *base) execTool(ctx context.Context, def tools.ToolDefinition, input json.RawMessage) (string, error) {
	cycleID, _ := telemetry.CycleIDFromContext(ctx)

	emit := func(durationMs int64, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   def.Name,
			"duration_ms": durationMs,
			"input_size":  len(input),
			"output_size": outputSize,
			"cycle_id":    cycleID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	resp, err := def.Function(input)
	if err != nil {
		// Generic string only; raw payloads stay out of telemetry.
		emit(time.Since(start).Milliseconds(), 0, "tool error")
		metrics.ToolCalls.WithLabelValues(def.Name, "error").Inc()
		return "", err
	}
	emit(time.Since(start).Milliseconds(), len(resp), "")
	metrics.ToolCalls.WithLabelValues(def.Name, "ok").Inc()
	return resp, nil
}

// requiredList converts the schema's "required" member to strings.
func requiredList(params map[string]any) []string {
	raw, _ := params["required"].([]any)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
