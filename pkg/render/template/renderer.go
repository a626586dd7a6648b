package template

import "io"

// TemplateRenderer executes sentence templates against a form value laid
// out as a property map. Rendered text is returned and also copied to any
// writers given.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(content string, data map[string]any, out ...io.Writer) (string, error)
}
