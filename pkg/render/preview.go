package render

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// NotRendered is shown before any renderer has produced output.
	NotRendered = "not yet rendered"
	// Unavailable is shown when the renderer failed or returned nothing.
	Unavailable = "no rendering available"
)

// Result is what the view displays for the current value.
type Result struct {
	Text     string
	Rendered bool
	// Err holds the renderer failure, if any. It is informational; Text
	// already carries the placeholder.
	Err error
}

// Display asks renderer for the sentence of value and falls back to a
// placeholder instead of failing. Renderer output is reduced to plain text.
func Display(ctx context.Context, renderer Renderer, schemaName string, value any) Result {
	if renderer == nil {
		return Result{Text: NotRendered}
	}
	if err := ctx.Err(); err != nil {
		return Result{Text: Unavailable, Err: err}
	}

	text, err := renderer.Render(ctx, schemaName, value)
	if err != nil {
		return Result{Text: Unavailable, Err: err}
	}
	text = Sanitize(text)
	if text == "" {
		return Result{Text: Unavailable}
	}
	return Result{Text: text, Rendered: true}
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize strips markup from renderer output and collapses whitespace.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := html.UnescapeString(textSanitizer().Sanitize(trimmed))
	return strings.Join(strings.Fields(cleaned), " ")
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
