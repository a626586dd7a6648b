package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/loader"
	"github.com/kubishi/yaduha-studio/pkg/model"
	"github.com/kubishi/yaduha-studio/pkg/orchestrator"
	"github.com/kubishi/yaduha-studio/pkg/render"
	"github.com/kubishi/yaduha-studio/pkg/render/template"
	"github.com/kubishi/yaduha-studio/pkg/render/template/gotemplate"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

var errNoSchemaSet = errors.New("no schema set: pass --schema or set STUDIO_SCHEMA")

// newOrchestrator wires the pipeline from the resolved settings. The
// template renderer is registered only when a templates directory is
// configured; without it previews show the "not yet rendered" placeholder.
func (s *settings) newOrchestrator() (*orchestrator.Orchestrator, error) {
	interp := s.cfg.Interpreter()

	registry := render.NewRegistry()
	if s.cfg.TemplatesDir != "" {
		engine, err := gotemplate.New(gotemplate.WithBaseDir(s.cfg.TemplatesDir))
		if err != nil {
			return nil, err
		}
		sentence, err := template.NewSentence(engine, template.DefaultName)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(sentence); err != nil {
			return nil, err
		}
	}

	defaultRenderer := ""
	if registry.Has(s.cfg.Renderer) {
		defaultRenderer = s.cfg.Renderer
	}

	return orchestrator.New(
		orchestrator.WithLogger(s.logger),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(defaultRenderer),
		orchestrator.WithLoader(loader.New(
			loader.WithHTTPFallback(s.cfg.HTTPTimeout),
			loader.WithStrictOpenAPI(s.cfg.StrictOpenAPI),
			loader.WithLogger(s.logger),
		)),
		orchestrator.WithSynchronizer(form.NewSynchronizer(
			form.WithInterpreter(interp),
			form.WithLogger(s.logger),
			form.WithBuilder(model.NewBuilder(model.WithInterpreter(interp))),
		)),
	), nil
}

// open builds the orchestrator and loads the configured schema set.
func (s *settings) open(ctx context.Context) (*orchestrator.Orchestrator, loader.Result, error) {
	if s.cfg.SchemaPath == "" {
		return nil, loader.Result{}, errNoSchemaSet
	}
	o, err := s.newOrchestrator()
	if err != nil {
		return nil, loader.Result{}, err
	}
	result, err := o.Load(ctx, schema.ParseSource(s.cfg.SchemaPath))
	if err != nil {
		return nil, loader.Result{}, err
	}
	return o, result, nil
}

func writeJSON(w io.Writer, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", payload)
	return err
}

// readValue decodes a JSON form value from path, or stdin for "-". Numbers
// stay json.Number so they round-trip unchanged.
func readValue(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read value: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode value %s: %w", path, err)
	}
	return value, nil
}
