package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	internalloader "github.com/kubishi/yaduha-studio/internal/loader"
	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Format is the serialisation of a schema set payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Result is a parsed schema set together with what the envelope said about
// it.
type Result struct {
	Set    *schema.Set
	Format Format
	// Report is set when the payload was a validator report.
	Report *Report
	// OpenAPI is true when the schemas came from components.schemas.
	OpenAPI bool
}

// Loader fetches schema set payloads and parses them into schema sets.
type Loader struct {
	fetcher *internalloader.Fetcher
	strict  bool
	logger  logrus.FieldLogger
}

// New constructs a Loader. File sources are always available; fs and URL
// sources need WithFileSystem and WithHTTPClient/WithHTTPFallback.
func New(options ...Option) *Loader {
	cfg := Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Loader{
		fetcher: internalloader.New(internalloader.Options{
			FileSystem:        cfg.FileSystem,
			HTTPClient:        cfg.HTTPClient,
			AllowHTTPFallback: cfg.AllowHTTPFallback,
			RequestTimeout:    cfg.RequestTimeout,
		}),
		strict: cfg.StrictOpenAPI,
		logger: logger,
	}
}

// Load fetches src and parses it.
func (l *Loader) Load(ctx context.Context, src schema.Source) (Result, error) {
	raw, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return Result{}, err
	}
	return l.Parse(ctx, raw)
}

// Parse decodes a fetched payload. The format is taken from the location's
// extension, falling back to sniffing the first byte.
func (l *Loader) Parse(ctx context.Context, raw schema.RawDocument) (Result, error) {
	data := raw.Bytes()
	format := DetectFormat(raw.Location(), data)

	var (
		payload map[string]any
		tree    *keyTree
		err     error
	)
	switch format {
	case FormatJSON:
		payload, _, err = jsonschema.Decode(data)
		if err == nil {
			tree, err = jsonKeyOrder(bytes.TrimSpace(data))
		}
	default:
		payload, tree, err = decodeYAML(data)
	}
	if err != nil {
		return Result{}, fmt.Errorf("loader: %s: %w", raw.Location(), err)
	}

	var result Result
	if isOpenAPI(payload) {
		result, err = l.parseOpenAPI(ctx, data, payload, tree)
	} else {
		result, err = parseEnvelope(payload, tree)
	}
	if err != nil {
		return Result{}, fmt.Errorf("loader: %s: %w", raw.Location(), err)
	}
	result.Format = format

	l.logger.WithFields(logrus.Fields{
		"source":  raw.Location(),
		"format":  format,
		"schemas": result.Set.Len(),
		"openapi": result.OpenAPI,
	}).Info("loaded schema set")
	return result, nil
}

// DetectFormat picks JSON or YAML from a location's extension or, failing
// that, from whether the payload starts with '{'.
func DetectFormat(location string, data []byte) Format {
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}
