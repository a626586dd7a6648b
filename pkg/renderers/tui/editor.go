package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/model"
	"github.com/kubishi/yaduha-studio/pkg/render"
)

const defaultsOption = "Start from defaults"

// Editor walks the RenderTree of a synchronizer's active schema in the
// terminal. Every answer is sent back to the synchronizer as an update, so
// the form value it returns is the synchronizer's own.
type Editor struct {
	driver  PromptDriver
	preview render.Renderer
	seq     *form.Sequencer
	logger  logrus.FieldLogger
	theme   Theme
}

// New constructs an editor with the survey driver unless one is supplied.
func New(options ...Option) *Editor {
	e := &Editor{
		seq:    &form.Sequencer{},
		logger: discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	return e
}

// Run prompts for a schema, an optional starting example, and then every
// field of the active schema. It returns the resulting form value.
func (e *Editor) Run(ctx context.Context, sync *form.Synchronizer) (any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sync == nil || sync.State() != form.StateActive {
		return nil, ErrNoSchema
	}

	if err := e.chooseSchema(ctx, sync); err != nil {
		return nil, err
	}
	if err := e.chooseExample(ctx, sync); err != nil {
		return nil, err
	}

	tree, err := sync.Tree()
	if err != nil {
		return nil, err
	}
	for _, field := range tree.Fields {
		if err := e.promptField(ctx, sync, field, 0); err != nil {
			return nil, err
		}
	}

	if err := e.showPreview(ctx, sync); err != nil {
		return nil, err
	}
	return sync.Value(), nil
}

func (e *Editor) chooseSchema(ctx context.Context, sync *form.Synchronizer) error {
	names := sync.Set().Names()
	if len(names) < 2 {
		return nil
	}
	active := sync.ActiveName()
	idx, err := e.selectOne(ctx, SelectConfig{
		Message:      "Sentence type",
		Options:      names,
		DefaultIndex: indexOf(names, active),
	})
	if err != nil {
		return err
	}
	if names[idx] == active {
		return nil
	}
	return sync.SwitchSchema(form.SwitchUpdate{Seq: e.seq.Next(), Name: names[idx]})
}

func (e *Editor) chooseExample(ctx context.Context, sync *form.Synchronizer) error {
	entry, ok := sync.Set().Get(sync.ActiveName())
	if !ok || len(entry.Examples) == 0 {
		return nil
	}
	options := make([]string, 0, len(entry.Examples)+1)
	options = append(options, defaultsOption)
	for idx, example := range entry.Examples {
		text := strings.TrimSpace(example.Text)
		if text == "" {
			text = fmt.Sprintf("Example %d", idx+1)
		}
		options = append(options, text)
	}

	idx, err := e.selectOne(ctx, SelectConfig{
		Message: "Start from",
		Options: options,
	})
	if err != nil {
		return err
	}
	if idx == 0 {
		return nil
	}
	return sync.LoadExampleIndex(e.seq.Next(), idx-1)
}

// promptField asks for one field. hops counts the Inner links between the
// outermost field at field.Path and field itself, so the field can be found
// again after a structural update.
func (e *Editor) promptField(ctx context.Context, sync *form.Synchronizer, field model.Field, hops int) error {
	switch field.Shape {
	case jsonschema.ShapeEnum:
		return e.promptEnum(ctx, sync, field)
	case jsonschema.ShapeBoolean:
		answer, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: displayLabel(field),
			Default: field.Value == true,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		return e.edit(sync, field.Path, answer)
	case jsonschema.ShapeString:
		current, _ := field.Value.(string)
		answer, err := e.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: current,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		return e.edit(sync, field.Path, answer)
	case jsonschema.ShapeObject:
		for _, child := range field.Nested {
			if err := e.promptField(ctx, sync, child, 0); err != nil {
				return err
			}
		}
		return nil
	case jsonschema.ShapeOptional:
		present, err := e.promptPresence(ctx, sync, field)
		if err != nil || !present {
			return err
		}
		return e.promptInner(ctx, sync, field.Path, hops)
	case jsonschema.ShapeUnion:
		if field.Nullable {
			present, err := e.promptPresence(ctx, sync, field)
			if err != nil || !present {
				return err
			}
		}
		if err := e.promptVariant(ctx, sync, field, hops); err != nil {
			return err
		}
		return e.promptInner(ctx, sync, field.Path, hops)
	default:
		e.logger.WithFields(logrus.Fields{
			"path":  field.Path,
			"shape": field.Shape.String(),
		}).Debug("skipping field without a control")
		return nil
	}
}

func (e *Editor) promptEnum(ctx context.Context, sync *form.Synchronizer, field model.Field) error {
	options := stringifyEnum(field.Enum)
	if len(options) == 0 {
		return nil
	}
	idx, err := e.selectOne(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      options,
		DefaultIndex: enumIndex(field.Enum, field.Value),
		Help:         field.Description,
	})
	if err != nil {
		return err
	}
	return e.edit(sync, field.Path, field.Enum[idx])
}

func (e *Editor) promptPresence(ctx context.Context, sync *form.Synchronizer, field model.Field) (bool, error) {
	answer, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Include %s?", displayLabel(field)),
		Default: field.Present,
		Help:    field.Description,
	})
	if err != nil {
		return false, err
	}
	if answer == field.Present {
		return answer, nil
	}
	applied, err := sync.SetPresent(form.PresenceUpdate{Seq: e.seq.Next(), Path: field.Path, Present: answer})
	if err != nil {
		return false, err
	}
	if !applied {
		e.logger.WithField("path", field.Path).Debug("presence update dropped")
		return false, nil
	}
	return answer, nil
}

func (e *Editor) promptVariant(ctx context.Context, sync *form.Synchronizer, field model.Field, hops int) error {
	current, ok := refetch(sync, field.Path, hops)
	if !ok || len(current.Variants) < 2 {
		return nil
	}
	idx, err := e.selectOne(ctx, SelectConfig{
		Message:      displayLabel(current),
		Options:      current.Variants,
		DefaultIndex: indexOf(current.Variants, current.Selected),
		Help:         current.Description,
	})
	if err != nil {
		return err
	}
	if current.Variants[idx] == current.Selected {
		return nil
	}
	applied, err := sync.SelectVariant(form.VariantSelection{
		Seq:     e.seq.Next(),
		Path:    field.Path,
		Variant: current.Variants[idx],
	})
	if err != nil {
		return err
	}
	if !applied {
		e.logger.WithField("path", field.Path).Debug("variant selection dropped")
	}
	return nil
}

func (e *Editor) promptInner(ctx context.Context, sync *form.Synchronizer, path string, hops int) error {
	current, ok := refetch(sync, path, hops)
	if !ok || current.Inner == nil {
		return nil
	}
	return e.promptField(ctx, sync, *current.Inner, hops+1)
}

// selectOne repeats the prompt until the driver returns a valid index.
func (e *Editor) selectOne(ctx context.Context, cfg SelectConfig) (int, error) {
	for {
		idx, err := e.driver.Select(ctx, cfg)
		if err != nil {
			return 0, err
		}
		if idx >= 0 && idx < len(cfg.Options) {
			return idx, nil
		}
		if err := e.driver.Info(ctx, e.theme.InfoPrefix+fmt.Sprintf("Invalid %s selection", cfg.Message)); err != nil {
			return 0, err
		}
	}
}

func (e *Editor) edit(sync *form.Synchronizer, path string, value any) error {
	applied, err := sync.ApplyEdit(form.FieldEdit{Seq: e.seq.Next(), Path: path, Value: value})
	if err != nil {
		return err
	}
	if !applied {
		e.logger.WithField("path", path).Debug("edit dropped")
	}
	return nil
}

func (e *Editor) showPreview(ctx context.Context, sync *form.Synchronizer) error {
	if e.preview == nil {
		return nil
	}
	result := render.Display(ctx, e.preview, sync.ActiveName(), sync.Value())
	if result.Err != nil {
		e.logger.WithError(result.Err).Debug("preview unavailable")
	}
	return e.driver.Info(ctx, e.theme.PreviewPrefix+result.Text)
}

func refetch(sync *form.Synchronizer, path string, hops int) (model.Field, bool) {
	tree, err := sync.Tree()
	if err != nil {
		return model.Field{}, false
	}
	field, ok := tree.Find(path)
	for ; ok && hops > 0; hops-- {
		if field.Inner == nil {
			return model.Field{}, false
		}
		field = *field.Inner
	}
	return field, ok
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	if field.Key != "" {
		return field.Key
	}
	return "Value"
}

func stringifyEnum(values []any) []string {
	out := make([]string, len(values))
	for idx, value := range values {
		out[idx] = fmt.Sprint(value)
	}
	return out
}

func enumIndex(values []any, current any) int {
	if current == nil {
		return -1
	}
	want := fmt.Sprint(current)
	for idx, value := range values {
		if fmt.Sprint(value) == want {
			return idx
		}
	}
	return -1
}
