package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/kubishi/yaduha-studio/pkg/render"
)

// DefaultName is the registry name of the template sentence renderer.
const DefaultName = "template"

// Sentence renders a value with the template named after its schema. A
// template sees the value's properties at the top level, plus `schema` (the
// schema name) and `value` (the whole value).
type Sentence struct {
	name   string
	engine TemplateRenderer
}

var _ render.Renderer = (*Sentence)(nil)

// NewSentence wraps engine. An empty name falls back to DefaultName.
func NewSentence(engine TemplateRenderer, name string) (*Sentence, error) {
	if engine == nil {
		return nil, errors.New("template: engine is required")
	}
	if name == "" {
		name = DefaultName
	}
	return &Sentence{name: name, engine: engine}, nil
}

// Name implements render.Renderer.
func (s *Sentence) Name() string { return s.name }

// Render implements render.Renderer.
func (s *Sentence) Render(ctx context.Context, schemaName string, value any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if schemaName == "" {
		return "", errors.New("template: schema name is required")
	}

	data := map[string]any{}
	if object, ok := value.(map[string]any); ok {
		for key, field := range object {
			data[key] = field
		}
	}
	data["schema"] = schemaName
	data["value"] = value

	out, err := s.engine.RenderTemplate(schemaName, data)
	if err != nil {
		return "", fmt.Errorf("template: render %s: %w", schemaName, err)
	}
	return out, nil
}
