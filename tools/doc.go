// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Page tools: draw_text (keyboard) and draw_svg (pen), bound to a Surface.
//   - Invariant: at most one tool runs per model request.
package tools
