package tui

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/render"
)

// Theme captures optional prefixes the editor applies to informational
// messages.
type Theme struct {
	InfoPrefix    string
	PreviewPrefix string
}

// Option configures the editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithPreview renders the sentence preview after each pass.
func WithPreview(renderer render.Renderer) Option {
	return func(e *Editor) {
		e.preview = renderer
	}
}

// WithSequencer shares a value-stream sequencer with other producers of
// updates for the same synchronizer.
func WithSequencer(seq *form.Sequencer) Option {
	return func(e *Editor) {
		if seq != nil {
			e.seq = seq
		}
	}
}

// WithLogger routes diagnostics through logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
