package dispatch

import (
	"fmt"
	"strings"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

// SummarizeScene asks the model to summarize the objects of the scene.
const SummarizeScene = "summarize_scene"

// ListPrompts returns the available prompts.
func (d *Dispatcher) ListPrompts() []PromptDescriptor {
	return []PromptDescriptor{
		{Name: SummarizeScene, Description: "Summarize all objects of the current scene"},
	}
}

// GetPrompt renders the named prompt against the current scene.
func (d *Dispatcher) GetPrompt(name string) (*PromptResult, error) {
	if name != SummarizeScene {
		return nil, &errors.NotFoundError{Kind: "prompt", ID: name}
	}

	objects, err := d.registry.List(scene.Objects)
	if err != nil {
		return nil, err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "The scene contains %d objects:\n", len(objects))

	for _, o := range objects {
		fmt.Fprintf(&b, "- %s (%s)\n", o.Name, FormatURI(scene.Objects, o.ID))
	}

	b.WriteString("\nProvide a concise summary of the scene structure.")

	return &PromptResult{
		Description: "Summary of the current scene",
		Messages:    []PromptMessage{{Role: "user", Text: b.String()}},
	}, nil
}
