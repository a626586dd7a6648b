package studio

import (
	"context"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/loader"
	"github.com/kubishi/yaduha-studio/pkg/orchestrator"
	"github.com/kubishi/yaduha-studio/pkg/render"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Request describes one pass through the pipeline; alias exported via the
// root package for convenience.
type Request = orchestrator.Request

// Output is the state after a Request.
type Output = orchestrator.Output

// Placeholders shown in place of a sentence.
const (
	NotRendered = render.NotRendered
	Unavailable = render.Unavailable
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a schema set loader.
func NewLoader(options ...loader.Option) *loader.Loader {
	return loader.New(options...)
}

// NewSynchronizer constructs an empty form state synchronizer.
func NewSynchronizer(options ...form.Option) *form.Synchronizer {
	return form.NewSynchronizer(options...)
}

// Generate loads the schema set at source, activates schemaName (the first
// sentence type when empty), and previews its default value with renderer.
// A nil renderer yields the "not yet rendered" placeholder.
func Generate(ctx context.Context, source schema.Source, schemaName string, renderer render.Renderer, options ...orchestrator.Option) (Output, error) {
	registry := render.NewRegistry()
	if renderer != nil {
		if err := registry.Register(renderer); err != nil {
			return Output{}, err
		}
	}
	options = append([]orchestrator.Option{orchestrator.WithRegistry(registry)}, options...)

	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source: source,
		Schema: schemaName,
	})
}
