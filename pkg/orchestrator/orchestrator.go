package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/loader"
	"github.com/kubishi/yaduha-studio/pkg/model"
	"github.com/kubishi/yaduha-studio/pkg/render"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema set loader.
func WithLoader(l *loader.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithSynchronizer injects the synchronizer that receives schema sets.
func WithSynchronizer(sync *form.Synchronizer) Option {
	return func(o *Orchestrator) {
		o.sync = sync
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithLogger routes orchestrator diagnostics through logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from a schema set source to a
// previewed sentence. Schema sets and value updates are stamped from two
// sequencers so concurrent producers (a file watcher and an editor) never
// race each other.
type Orchestrator struct {
	loader          *loader.Loader
	sync            *form.Synchronizer
	registry        *render.Registry
	defaultRenderer string
	logger          logrus.FieldLogger

	schemaSeq *form.Sequencer
	valueSeq  *form.Sequencer
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		schemaSeq: &form.Sequencer{},
		valueSeq:  &form.Sequencer{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.logger = discard
	}
	if o.loader == nil {
		o.loader = loader.New(loader.WithLogger(o.logger))
	}
	if o.sync == nil {
		o.sync = form.NewSynchronizer(form.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
	}
	return o
}

// Synchronizer exposes the form state the orchestrator feeds.
func (o *Orchestrator) Synchronizer() *form.Synchronizer {
	return o.sync
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Sequencer returns the value-stream sequencer so other producers of value
// updates (an editor, say) stamp from the same counter.
func (o *Orchestrator) Sequencer() *form.Sequencer {
	return o.valueSeq
}

// Load fetches and parses src and hands the resulting set to the
// synchronizer. The set is stamped when the load starts, so of two
// overlapping loads the one started later wins regardless of which fetch
// finishes first. A failed load leaves the previous set in place.
func (o *Orchestrator) Load(ctx context.Context, src schema.Source) (loader.Result, error) {
	if ctx == nil {
		return loader.Result{}, errors.New("orchestrator: context is required")
	}
	if src == nil {
		return loader.Result{}, errors.New("orchestrator: source is required")
	}
	seq := o.schemaSeq.Next()
	result, err := o.loader.Load(ctx, src)
	if err != nil {
		o.logger.WithError(err).WithField("source", src.Location()).Warn("keeping previous schema set")
		return loader.Result{}, fmt.Errorf("orchestrator: load schema set: %w", err)
	}
	if err := o.sync.ApplySchemaSet(form.SchemaSetUpdate{Seq: seq, Set: result.Set}); err != nil {
		o.logger.WithError(err).WithField("source", src.Location()).Warn("discarding superseded schema set")
		return loader.Result{}, fmt.Errorf("orchestrator: apply schema set: %w", err)
	}
	return result, nil
}

// Preview renders the current form value with the named renderer, or the
// default one when name is empty. It never fails: problems surface as
// placeholder text.
func (o *Orchestrator) Preview(ctx context.Context, name string) render.Result {
	renderer, err := o.rendererFor(name)
	if err != nil {
		o.logger.WithError(err).Debug("preview without renderer")
		return render.Result{Text: render.Unavailable, Err: err}
	}
	snapshot := o.sync.Snapshot()
	return render.Display(ctx, renderer, snapshot.Active, snapshot.Value)
}

// Request describes one pass through the pipeline.
type Request struct {
	// Source is loaded first when set; otherwise the current set is used.
	Source schema.Source

	// Schema selects the sentence type. Empty keeps the active one.
	Schema string

	// Example, when non-nil, loads that example of the schema.
	Example *int

	// Value, when non-nil, replaces the form value.
	Value any

	// Renderer names the renderer used for the preview.
	Renderer string
}

// Output is the state after a Request.
type Output struct {
	Schema  string
	Value   any
	Tree    model.Tree
	Preview render.Result
}

// Generate executes load → switch → example/value → tree → preview and
// returns the resulting state.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Output, error) {
	if ctx == nil {
		return Output{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	if req.Source != nil {
		if _, err := o.Load(ctx, req.Source); err != nil {
			return Output{}, err
		}
	}
	if req.Schema != "" && req.Schema != o.sync.ActiveName() {
		if err := o.sync.SwitchSchema(form.SwitchUpdate{Seq: o.valueSeq.Next(), Name: req.Schema}); err != nil {
			return Output{}, fmt.Errorf("orchestrator: %w", err)
		}
	}
	if req.Example != nil {
		if err := o.sync.LoadExampleIndex(o.valueSeq.Next(), *req.Example); err != nil {
			return Output{}, fmt.Errorf("orchestrator: %w", err)
		}
	}
	if req.Value != nil {
		if err := o.sync.LoadExample(form.ExampleUpdate{Seq: o.valueSeq.Next(), Value: req.Value}); err != nil {
			return Output{}, fmt.Errorf("orchestrator: %w", err)
		}
	}

	tree, err := o.sync.Tree()
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: build render tree: %w", err)
	}
	return Output{
		Schema:  o.sync.ActiveName(),
		Value:   o.sync.Value(),
		Tree:    tree,
		Preview: o.Preview(ctx, req.Renderer),
	}, nil
}

// rendererFor returns nil without error when nothing is registered, so the
// preview shows the "not yet rendered" placeholder.
func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target == "" && len(o.registry.Names()) == 0 {
		return nil, nil
	}

	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}
