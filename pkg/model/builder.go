package model

import (
	internalmodel "github.com/kubishi/yaduha-studio/internal/model"
	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
)

// Builder converts a schema and its current value into a render tree.
type Builder interface {
	Build(in Input) (Tree, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler     func(string) string
	interpreter *jsonschema.Interpreter
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithInterpreter swaps the interpreter used for classification and variant
// detection.
func WithInterpreter(interp *jsonschema.Interpreter) BuilderOption {
	return func(opts *builderOptions) {
		opts.interpreter = interp
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return internalmodel.New(internalmodel.Options{
		Labeler:     cfg.labeler,
		Interpreter: cfg.interpreter,
	})
}
