package loader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Report mirrors the validator's output: whether the language package
// loaded, its identity, and the sentence types it declares.
type Report struct {
	Valid         bool
	Language      string
	Name          string
	SentenceTypes []string
	Error         string
	ErrorType     string
}

// ReportError is returned when a validator report says the package failed to
// load.
type ReportError struct {
	Type    string
	Message string
}

func (e *ReportError) Error() string {
	if e.Type == "" {
		return "loader: validator reported an invalid package: " + e.Message
	}
	return fmt.Sprintf("loader: validator reported an invalid package: %s: %s", e.Type, e.Message)
}

const (
	reportValidKey   = "valid"
	reportTypesKey   = "sentence_types"
	reportSchemasKey = "schemas"
	entrySchemaKey   = "schema"
	entryExamplesKey = "examples"
)

// parseEnvelope accepts either a bare {name: entry} map or a validator
// report carrying entries under "schemas". An entry is {schema, examples}
// or a schema object on its own.
func parseEnvelope(payload map[string]any, tree *keyTree) (Result, error) {
	if _, isReport := payload[reportValidKey]; isReport {
		return parseReport(payload, tree)
	}
	if looksLikeSchema(payload) {
		name := stringField(payload, "title")
		if name == "" {
			name = "Schema"
		}
		set, err := buildSet(map[string]any{name: payload}, []string{name})
		if err != nil {
			return Result{}, err
		}
		return Result{Set: set}, nil
	}

	set, err := buildSet(payload, orderedNames(payload, tree.at()))
	if err != nil {
		return Result{}, err
	}
	return Result{Set: set}, nil
}

func parseReport(payload map[string]any, tree *keyTree) (Result, error) {
	report := &Report{
		Language:  stringField(payload, "language"),
		Name:      stringField(payload, "name"),
		Error:     stringField(payload, "error"),
		ErrorType: stringField(payload, "error_type"),
	}
	report.Valid, _ = payload[reportValidKey].(bool)
	if !report.Valid {
		return Result{}, &ReportError{Type: report.ErrorType, Message: report.Error}
	}

	if names, ok := payload[reportTypesKey].([]any); ok {
		for _, name := range names {
			if text, ok := name.(string); ok {
				report.SentenceTypes = append(report.SentenceTypes, text)
			}
		}
	}

	entries, _ := payload[reportSchemasKey].(map[string]any)
	order := report.SentenceTypes
	if len(order) == 0 {
		order = orderedNames(entries, tree.at(reportSchemasKey))
	}
	for _, name := range order {
		if _, ok := entries[name]; !ok {
			return Result{}, fmt.Errorf("sentence type %q has no schema", name)
		}
	}

	set, err := buildSet(entries, order)
	if err != nil {
		return Result{}, err
	}
	return Result{Set: set, Report: report}, nil
}

func buildSet(entries map[string]any, order []string) (*schema.Set, error) {
	out := make([]schema.Entry, 0, len(order))
	for _, name := range order {
		entry, err := parseEntry(name, entries[name])
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return schema.NewSet(out...)
}

func parseEntry(name string, raw any) (schema.Entry, error) {
	object, ok := raw.(map[string]any)
	if !ok {
		return schema.Entry{}, fmt.Errorf("entry %q must be an object", name)
	}

	payload := object
	if nested, ok := object[entrySchemaKey].(map[string]any); ok {
		payload = nested
	}
	doc, err := schema.NewDocument(payload)
	if err != nil {
		return schema.Entry{}, fmt.Errorf("entry %q: %w", name, err)
	}

	examples, err := parseExamples(object[entryExamplesKey])
	if err != nil {
		return schema.Entry{}, fmt.Errorf("entry %q: %w", name, err)
	}
	return schema.Entry{Name: name, Document: doc, Examples: examples}, nil
}

// parseExamples accepts {text, value} objects, [text, value] pairs, or bare
// values (JSON Schema "examples").
func parseExamples(raw any) ([]schema.Example, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.New("examples must be a list")
	}

	out := make([]schema.Example, 0, len(list))
	for _, item := range list {
		switch typed := item.(type) {
		case map[string]any:
			text, hasText := typed["text"].(string)
			value, hasValue := typed["value"]
			if hasText && hasValue {
				out = append(out, schema.Example{Text: text, Value: value})
				continue
			}
			out = append(out, schema.Example{Value: typed})
		case []any:
			text, ok := pairText(typed)
			if !ok {
				return nil, errors.New("example pairs must be [text, value]")
			}
			out = append(out, schema.Example{Text: text, Value: typed[1]})
		default:
			out = append(out, schema.Example{Value: typed})
		}
	}
	return out, nil
}

func pairText(pair []any) (string, bool) {
	if len(pair) != 2 {
		return "", false
	}
	text, ok := pair[0].(string)
	return text, ok
}

// orderedNames returns the keys of entries in recorded order, with any
// unrecorded keys appended sorted.
func orderedNames(entries map[string]any, recorded []string) []string {
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, name := range recorded {
		if _, ok := entries[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	var rest []string
	for name := range entries {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// looksLikeSchema reports whether payload is a single schema rather than a
// map of named entries.
func looksLikeSchema(payload map[string]any) bool {
	if _, ok := payload["type"].(string); ok {
		return true
	}
	for _, key := range []string{"properties", "anyOf", "oneOf", "$ref"} {
		if _, ok := payload[key]; ok {
			return true
		}
	}
	return false
}

func stringField(payload map[string]any, key string) string {
	value, _ := payload[key].(string)
	return value
}
