package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Options are the pre-resolved knobs of a Fetcher.
type Options struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}

// Fetcher reads raw schema set payloads from files, an fs.FS, or HTTP.
type Fetcher struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// New constructs a Fetcher from pre-resolved options.
func New(options Options) *Fetcher {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Fetcher{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Fetch reads the payload behind src.
func (f *Fetcher) Fetch(ctx context.Context, src schema.Source) (schema.RawDocument, error) {
	if src == nil {
		return schema.RawDocument{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, f.fs, src.Location())
	case schema.SourceKindURL:
		if !f.allowHTTP {
			return schema.RawDocument{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, f.http, src.Location(), f.timeout)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.RawDocument{}, err
	}

	return schema.NewRawDocument(src, data)
}
