package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"

	"github.com/kubishi/yaduha-studio/pkg/schema"
)

func isOpenAPI(payload map[string]any) bool {
	version, ok := payload["openapi"].(string)
	return ok && version != ""
}

// parseOpenAPI treats every components.schemas entry as a sentence type. The
// document is loaded with kin-openapi (and validated in strict mode); each
// entry's schema document is rooted inside the full payload so component
// references resolve.
func (l *Loader) parseOpenAPI(ctx context.Context, data []byte, payload map[string]any, tree *keyTree) (Result, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Result{}, fmt.Errorf("load openapi document: %w", err)
	}
	if l.strict {
		if err := spec.Validate(ctx); err != nil {
			return Result{}, fmt.Errorf("validate openapi document: %w", err)
		}
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return Result{}, errors.New("openapi document declares no components.schemas")
	}

	components, _ := payload["components"].(map[string]any)
	declared, _ := components["schemas"].(map[string]any)

	var entries []schema.Entry
	for _, name := range orderedNames(declared, tree.at("components", "schemas")) {
		doc, err := schema.NewDocumentAt(payload, "#/components/schemas/"+escapePointerToken(name))
		if err != nil {
			return Result{}, fmt.Errorf("component %q: %w", name, err)
		}
		entry := schema.Entry{Name: name, Document: doc}
		if ref, ok := spec.Components.Schemas[name]; ok && ref != nil && ref.Value != nil && ref.Value.Example != nil {
			entry.Examples = append(entry.Examples, schema.Example{Value: ref.Value.Example})
		}
		entries = append(entries, entry)
	}

	set, err := schema.NewSet(entries...)
	if err != nil {
		return Result{}, err
	}
	l.logger.WithFields(logrus.Fields{
		"title":   specTitle(spec),
		"schemas": set.Len(),
	}).Debug("extracted openapi component schemas")
	return Result{Set: set, OpenAPI: true}, nil
}

func specTitle(spec *openapi3.T) string {
	if spec.Info == nil {
		return ""
	}
	return spec.Info.Title
}

func escapePointerToken(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}
