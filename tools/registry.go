package tools

// Surface is where tool output lands on the page.
type Surface interface {
	TypeText(text string) error
	DrawSVG(svg string) error
}

// Registry returns all tool definitions wired to surface.
func Registry(surface Surface) []ToolDefinition {
	return []ToolDefinition{DrawTextDefinition(surface), DrawSVGDefinition(surface)}
}
