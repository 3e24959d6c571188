package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// DefaultPromptName is served from DefaultPrompt when no file overrides it.
const DefaultPromptName = "general"

// DefaultPrompt instructs the model to answer with exactly one tool call.
const DefaultPrompt = `You are looking at a handwritten page on an e-ink tablet. ` +
	`Read what is written or drawn and respond helpfully on the same page. ` +
	`Use draw_text to write a short text answer below the existing content, ` +
	`or draw_svg to sketch a drawing. SVG output must be 1404 pixels wide and 1872 pixels tall, ` +
	`black strokes on a transparent background, and must not cover existing ink. ` +
	`Call exactly one tool.`

// PromptReader reads prompt files relative to a sandbox root.
type PromptReader interface {
	ReadFile(relPath string) ([]byte, error)
	ListFiles(relDir string) ([]string, error)
}

type promptFile struct {
	Prompt string `json:"prompt"`
}

// LoadPrompt reads <dir>/<name>.json. A missing default prompt falls back
// to DefaultPrompt; any other missing prompt is an error naming the
// prompts that do exist.
func LoadPrompt(r PromptReader, dir, name string) (string, error) {
	if name == "" {
		name = DefaultPromptName
	}
	rel := path.Join(dir, name+".json")

	b, err := r.ReadFile(rel)
	if errors.Is(err, fs.ErrNotExist) {
		if name == DefaultPromptName {
			return DefaultPrompt, nil
		}
		return "", fmt.Errorf("prompt %q not found (available: %s)", name, strings.Join(availablePrompts(r, dir), ", "))
	}
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", rel, err)
	}

	var pf promptFile
	if err := json.Unmarshal(b, &pf); err != nil {
		return "", fmt.Errorf("decode prompt %s: %w", rel, err)
	}
	if strings.TrimSpace(pf.Prompt) == "" {
		return "", fmt.Errorf("prompt %s: empty \"prompt\" field", rel)
	}
	return pf.Prompt, nil
}

func availablePrompts(r PromptReader, dir string) []string {
	names := []string{DefaultPromptName}
	entries, err := r.ListFiles(dir)
	if err != nil {
		return names
	}
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e, ".json"); ok && n != DefaultPromptName {
			names = append(names, n)
		}
	}
	return names
}
