package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

type DrawSVGInput struct {
	SVG               string `json:"svg" jsonschema_description:"Complete SVG document sized 1404x1872. Drawn in black ink over the current page."`
	InputDescription  string `json:"input_description,omitempty" jsonschema_description:"What you see on the page."`
	OutputDescription string `json:"output_description,omitempty" jsonschema_description:"What the SVG will add to the page."`
}

const drawSVGDescription = `Draw on the page by providing an SVG document. Filled shapes, strokes and text are traced with the pen.

The canvas is 1404 pixels wide and 1872 pixels tall; keep drawings clear of the top-right corner, which is used for status marks.`

var DrawSVGInputSchema = GenerateSchema[DrawSVGInput]()

// DrawSVGDefinition returns the draw_svg tool bound to surface.
func DrawSVGDefinition(surface Surface) ToolDefinition {
	return ToolDefinition{
		Name:        "draw_svg",
		Description: drawSVGDescription,
		InputSchema: DrawSVGInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in DrawSVGInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.SVG) == "" {
				return "", fmt.Errorf("svg must not be empty")
			}
			if err := surface.DrawSVG(in.SVG); err != nil {
				return "", err
			}
			return "OK", nil
		},
	}
}
