package render

import "context"

// Renderer turns a form value into the sentence it describes. Renderers are
// opaque to the form engine: it hands over the active schema name and the
// current value and only displays what comes back.
type Renderer interface {
	Name() string
	Render(ctx context.Context, schemaName string, value any) (string, error)
}

// RendererFunc adapts a function into a named Renderer.
type RendererFunc struct {
	ID string
	Fn func(ctx context.Context, schemaName string, value any) (string, error)
}

// Name implements Renderer.
func (f RendererFunc) Name() string { return f.ID }

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, schemaName string, value any) (string, error) {
	return f.Fn(ctx, schemaName, value)
}
