package tools

import (
	"encoding/json"
	"fmt"
)

type DrawTextInput struct {
	Text string `json:"text" jsonschema_description:"Text to type onto the page at the cursor. Use \\n for new lines."`
}

const drawTextDescription = `Type text onto the page using the tablet's keyboard input. The text appears at the current cursor position in body style.

Only plain ASCII characters are typed; anything else is skipped.`

var DrawTextInputSchema = GenerateSchema[DrawTextInput]()

// DrawTextDefinition returns the draw_text tool bound to surface.
func DrawTextDefinition(surface Surface) ToolDefinition {
	return ToolDefinition{
		Name:        "draw_text",
		Description: drawTextDescription,
		InputSchema: DrawTextInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in DrawTextInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			if in.Text == "" {
				return "", fmt.Errorf("text must not be empty")
			}
			if err := surface.TypeText(in.Text); err != nil {
				return "", err
			}
			return "OK", nil
		},
	}
}
