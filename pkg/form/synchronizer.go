package form

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/model"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// State is the synchronizer's lifecycle phase.
type State int

const (
	// StateNoSchemaSet means no schema set has arrived yet.
	StateNoSchemaSet State = iota
	// StateNoSelection means a set arrived but holds no schema to activate.
	StateNoSelection
	// StateActive means a schema is active and the form value tracks it.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateNoSchemaSet:
		return "no-schema-set"
	case StateNoSelection:
		return "no-selection"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// SchemaSetUpdate replaces the whole schema set, typically after the
// validator re-runs.
type SchemaSetUpdate struct {
	Seq uint64
	Set *schema.Set
}

// SwitchUpdate activates another schema of the current set.
type SwitchUpdate struct {
	Seq  uint64
	Name string
}

// FieldEdit writes Value at a dotted Path of the form value.
type FieldEdit struct {
	Seq   uint64
	Path  string
	Value any
}

// VariantSelection records the user's choice of variant for the union at
// Path.
type VariantSelection struct {
	Seq     uint64
	Path    string
	Variant string
}

// PresenceUpdate toggles a nullable field on or off.
type PresenceUpdate struct {
	Seq     uint64
	Path    string
	Present bool
}

// ExampleUpdate replaces the whole form value, e.g. when an example is
// written into the editor or the schema file changes underneath it.
type ExampleUpdate struct {
	Seq   uint64
	Value any
}

// Snapshot is a consistent copy of the synchronizer's observable state.
type Snapshot struct {
	State       State
	Active      string
	Value       any
	Selection   map[string]string
	Fingerprint Fingerprint
}

// Synchronizer owns the form value and the active selection and keeps them
// consistent with a hot-reloaded schema set. Updates arrive on two streams,
// schema sets and value changes, each with its own sequence numbers; an
// update whose number is not newer than the last one applied on its stream
// is rejected with ErrStaleUpdate.
//
// All methods are safe to call from multiple goroutines.
type Synchronizer struct {
	mu sync.Mutex

	interp  *jsonschema.Interpreter
	builder model.Builder
	logger  logrus.FieldLogger

	state       State
	set         *schema.Set
	active      string
	value       any
	selection   map[string]string
	fingerprint Fingerprint

	schemaSeq uint64
	valueSeq  uint64
}

// NewSynchronizer creates a synchronizer in StateNoSchemaSet.
func NewSynchronizer(options ...Option) *Synchronizer {
	s := &Synchronizer{
		interp:    jsonschema.Default(),
		logger:    discardLogger(),
		selection: make(map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.builder == nil {
		s.builder = model.NewBuilder(model.WithInterpreter(s.interp))
	}
	return s
}

// ApplySchemaSet installs a new schema set. The active name survives when the
// new set still contains it, otherwise the first schema becomes active. The
// form value is kept when the active schema's fingerprint is unchanged and
// rebuilt from defaults otherwise.
func (s *Synchronizer) ApplySchemaSet(update SchemaSetUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.schemaSeq, update.Seq, "schema-set"); err != nil {
		return err
	}
	s.set = update.Set

	if update.Set == nil {
		s.reset(StateNoSchemaSet)
		return nil
	}
	if update.Set.Len() == 0 {
		s.reset(StateNoSelection)
		s.logger.WithField("seq", update.Seq).Info("schema set is empty")
		return nil
	}

	name := s.active
	if !update.Set.Has(name) {
		name = update.Set.First()
	}
	entry, _ := update.Set.Get(name)
	fingerprint := FingerprintOf(s.interp, entry.Document)

	if s.state == StateActive && name == s.active && fingerprint.Equal(s.fingerprint) {
		s.logger.WithFields(logrus.Fields{
			"seq":         update.Seq,
			"schema":      name,
			"fingerprint": fingerprint.String(),
		}).Debug("schema shape unchanged; keeping form value")
		return nil
	}

	s.rebuild(name, entry.Document, fingerprint)
	s.logger.WithFields(logrus.Fields{
		"seq":         update.Seq,
		"schema":      name,
		"fingerprint": fingerprint.String(),
	}).Info("form value rebuilt from defaults")
	return nil
}

// SwitchSchema activates name and rebuilds the form value from its defaults.
func (s *Synchronizer) SwitchSchema(update SwitchUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.valueSeq, update.Seq, "switch"); err != nil {
		return err
	}
	entry, ok := s.set.Get(update.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSchema, update.Name)
	}

	fingerprint := FingerprintOf(s.interp, entry.Document)
	s.rebuild(update.Name, entry.Document, fingerprint)
	s.logger.WithFields(logrus.Fields{
		"seq":    update.Seq,
		"schema": update.Name,
	}).Info("switched active schema")
	return nil
}

// ApplyEdit writes one field. It reports false without error when the path
// does not exist in the active schema (for instance because the schema
// changed since the edit was issued), when the empty path addresses an
// object root, or when no schema is active; the form value is then left
// untouched.
func (s *Synchronizer) ApplyEdit(edit FieldEdit) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.valueSeq, edit.Seq, "edit"); err != nil {
		return false, err
	}
	id, ok := s.locate(edit.Path, edit.Seq, "edit")
	if !ok {
		return false, nil
	}

	value := schema.CloneValue(edit.Value)
	s.value = setPath(s.value, edit.Path, value)

	// Writing a union field directly re-derives its variant.
	doc := s.document()
	if settled, shape := s.interp.Settle(doc, id); shape == jsonschema.ShapeUnion {
		dropNested(s.selection, edit.Path)
		s.selection[edit.Path] = s.interp.DetectVariant(doc, value, s.interp.Variants(doc, settled))
	}
	s.logger.WithFields(logrus.Fields{
		"seq":    edit.Seq,
		"schema": s.active,
		"path":   edit.Path,
	}).Debug("field edited")
	return true, nil
}

// SelectVariant records an explicit variant choice for the union at path.
// Unless the current value already detects as that variant, the value at
// path is replaced with the variant's default. Unknown paths or variant
// names are ignored and reported as false.
func (s *Synchronizer) SelectVariant(update VariantSelection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.valueSeq, update.Seq, "select-variant"); err != nil {
		return false, err
	}
	id, ok := s.locate(update.Path, update.Seq, "select-variant")
	if !ok {
		return false, nil
	}

	doc := s.document()
	variants := s.interp.Variants(doc, id)
	variant, found := jsonschema.FindVariant(variants, update.Variant)
	if !found {
		s.logger.WithFields(logrus.Fields{
			"seq":     update.Seq,
			"path":    update.Path,
			"variant": update.Variant,
		}).Debug("dropped selection of unknown variant")
		return false, nil
	}

	current, _ := getPath(s.value, update.Path)
	s.selection[update.Path] = variant.Name
	if current == nil || s.interp.DetectVariant(doc, current, variants) != variant.Name {
		dropNested(s.selection, update.Path)
		s.value = setPath(s.value, update.Path, s.interp.BuildDefault(doc, variant.Node))
	}
	return true, nil
}

// SetPresent toggles a nullable field. Turning it on synthesizes the default
// of the optional's inner node (or of the selected union variant); turning it
// off stores nil. Non-nullable or unknown paths are ignored.
func (s *Synchronizer) SetPresent(update PresenceUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.valueSeq, update.Seq, "set-present"); err != nil {
		return false, err
	}
	id, ok := s.locate(update.Path, update.Seq, "set-present")
	if !ok {
		return false, nil
	}

	doc := s.document()
	settled, shape := s.interp.Settle(doc, id)
	var inner schema.NodeID
	switch shape {
	case jsonschema.ShapeOptional:
		inner = s.interp.OptionalInner(doc, settled)
	case jsonschema.ShapeUnion:
		if _, nullable := s.interp.Partition(doc, settled); !nullable {
			return false, nil
		}
		variants := s.interp.Variants(doc, settled)
		variant, found := jsonschema.FindVariant(variants, s.selection[update.Path])
		if !found {
			variant = variants[0]
		}
		inner = variant.Node
	default:
		return false, nil
	}

	current, _ := getPath(s.value, update.Path)
	switch {
	case update.Present && current == nil:
		s.value = setPath(s.value, update.Path, s.interp.BuildDefault(doc, inner))
	case !update.Present:
		dropNested(s.selection, update.Path)
		s.value = setPath(s.value, update.Path, nil)
	}
	return true, nil
}

// LoadExample replaces the form value wholesale and re-derives every union
// selection from the new value.
func (s *Synchronizer) LoadExample(update ExampleUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.valueSeq, update.Seq, "load-example"); err != nil {
		return err
	}
	if s.state != StateActive {
		return ErrNoActiveSchema
	}
	s.load(update.Value)
	s.logger.WithFields(logrus.Fields{
		"seq":    update.Seq,
		"schema": s.active,
	}).Info("loaded form value")
	return nil
}

// LoadExampleIndex loads the idx-th example of the active schema.
func (s *Synchronizer) LoadExampleIndex(seq uint64, idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(&s.valueSeq, seq, "load-example"); err != nil {
		return err
	}
	if s.state != StateActive {
		return ErrNoActiveSchema
	}
	example, err := s.set.Example(s.active, idx)
	if err != nil {
		return fmt.Errorf("form: load example: %w", err)
	}
	s.load(example.Value)
	s.logger.WithFields(logrus.Fields{
		"seq":     seq,
		"schema":  s.active,
		"example": idx,
	}).Info("loaded example")
	return nil
}

// State returns the lifecycle phase.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveName returns the active schema name, "" when none is active.
func (s *Synchronizer) ActiveName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Value returns a deep copy of the form value.
func (s *Synchronizer) Value() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.CloneValue(s.value)
}

// Selection returns a copy of the explicit variant selections keyed by path.
func (s *Synchronizer) Selection() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySelection(s.selection)
}

// Fingerprint returns the fingerprint recorded at the last synthesis.
func (s *Synchronizer) Fingerprint() Fingerprint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(Fingerprint(nil), s.fingerprint...)
}

// Set returns the current schema set.
func (s *Synchronizer) Set() *schema.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Snapshot returns a consistent copy of the observable state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:       s.state,
		Active:      s.active,
		Value:       schema.CloneValue(s.value),
		Selection:   copySelection(s.selection),
		Fingerprint: append(Fingerprint(nil), s.fingerprint...),
	}
}

// Tree derives the render tree for the active schema from a copy of the
// current value; field values never alias the synchronizer's state.
func (s *Synchronizer) Tree() (model.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return model.Tree{}, ErrNoActiveSchema
	}
	return s.builder.Build(model.Input{
		Name:      s.active,
		Document:  s.document(),
		Value:     schema.CloneValue(s.value),
		Selection: copySelection(s.selection),
	})
}

func (s *Synchronizer) admit(last *uint64, seq uint64, kind string) error {
	if seq <= *last {
		s.logger.WithFields(logrus.Fields{
			"seq":    seq,
			"latest": *last,
			"update": kind,
		}).Warn("rejected stale update")
		return fmt.Errorf("%w: %s seq %d <= %d", ErrStaleUpdate, kind, seq, *last)
	}
	*last = seq
	return nil
}

func (s *Synchronizer) reset(state State) {
	s.state = state
	s.active = ""
	s.value = nil
	s.fingerprint = nil
	s.selection = make(map[string]string)
}

func (s *Synchronizer) rebuild(name string, doc *schema.Document, fingerprint Fingerprint) {
	s.state = StateActive
	s.active = name
	s.fingerprint = fingerprint
	s.selection = make(map[string]string)
	s.value = s.interp.BuildDefault(doc, doc.Root())
}

func (s *Synchronizer) load(value any) {
	s.value = schema.CloneValue(value)
	s.selection = make(map[string]string)

	tree, err := s.builder.Build(model.Input{Name: s.active, Document: s.document(), Value: s.value})
	if err != nil {
		return
	}
	tree.Walk(func(field model.Field) bool {
		if field.Shape == jsonschema.ShapeUnion && field.Selected != "" {
			s.selection[field.Path] = field.Selected
		}
		return true
	})
}

func (s *Synchronizer) document() *schema.Document {
	entry, _ := s.set.Get(s.active)
	return entry.Document
}

func (s *Synchronizer) locate(path string, seq uint64, kind string) (schema.NodeID, bool) {
	fields := logrus.Fields{"seq": seq, "path": path, "update": kind}
	if s.state != StateActive {
		s.logger.WithFields(fields).Debug("dropped update without an active schema")
		return schema.NoNode, false
	}
	doc := s.document()
	if path == "" {
		// The root of an object form is replaced through LoadExample only.
		if s.interp.Classify(doc, doc.Root()) == jsonschema.ShapeObject {
			fields["schema"] = s.active
			s.logger.WithFields(fields).Debug("dropped update addressing the whole form value")
			return schema.NoNode, false
		}
	}
	l := locator{doc: doc, interp: s.interp, selection: s.selection}
	id, ok := l.locate(path, s.value)
	if !ok {
		fields["schema"] = s.active
		s.logger.WithFields(fields).Debug("dropped update for a path the schema no longer has")
	}
	return id, ok
}

func copySelection(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
