package form

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/model"
)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger routes transition logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInterpreter swaps the interpreter used for classification, defaults,
// and variant detection.
func WithInterpreter(interp *jsonschema.Interpreter) Option {
	return func(s *Synchronizer) {
		if interp != nil {
			s.interp = interp
		}
	}
}

// WithBuilder overrides the render tree builder.
func WithBuilder(builder model.Builder) Option {
	return func(s *Synchronizer) {
		if builder != nil {
			s.builder = builder
		}
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
