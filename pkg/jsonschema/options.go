package jsonschema

const (
	defaultMaxRefDepth = 64
	defaultMaxDepth    = 32
)

// Options configures the schema interpreter.
type Options struct {
	// MaxRefDepth caps the length of $ref chains followed by Resolve.
	MaxRefDepth int
	// MaxDepth caps structural recursion (union collapse, object defaults,
	// conformance checks). Overflow is treated as an unknown shape.
	MaxDepth int
	// UseDeclaredDefaults lets BuildDefault return a node's declared
	// "default" keyword when it conforms to the node.
	UseDeclaredDefaults bool
}

// Option mutates interpreter options.
type Option func(*Options)

// WithMaxRefDepth overrides the $ref chain ceiling.
func WithMaxRefDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxRefDepth = depth
	}
}

// WithMaxDepth overrides the structural recursion ceiling.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithDeclaredDefaults toggles use of declared "default" keywords.
func WithDeclaredDefaults(enabled bool) Option {
	return func(opts *Options) {
		opts.UseDeclaredDefaults = enabled
	}
}

// Interpreter evaluates schema documents: resolution, classification, default
// synthesis, and variant detection. It holds no per-document state and is safe
// for concurrent use.
type Interpreter struct {
	opts Options
}

// New constructs an interpreter, filling unset limits with defaults.
func New(options ...Option) *Interpreter {
	opts := Options{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	if opts.MaxRefDepth <= 0 {
		opts.MaxRefDepth = defaultMaxRefDepth
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return &Interpreter{opts: opts}
}

// Options returns the effective configuration.
func (i *Interpreter) Options() Options {
	return i.opts
}

var defaultInterpreter = New()

// Default returns the shared interpreter with default limits.
func Default() *Interpreter {
	return defaultInterpreter
}
