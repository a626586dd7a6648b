package loader

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures how a Loader resolves and parses sources.
type Options struct {
	// FileSystem enables fs.FS sources.
	FileSystem fs.FS

	// HTTPClient enables URL sources with caller-controlled transport.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is supplied.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// StrictOpenAPI validates OpenAPI documents before extracting schemas.
	StrictOpenAPI bool

	Logger logrus.FieldLogger
}

// Option mutates Options prior to construction.
type Option func(*Options)

// WithFileSystem injects an fs.FS for fs sources.
func WithFileSystem(files fs.FS) Option {
	return func(opts *Options) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote schema sets.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithStrictOpenAPI toggles OpenAPI document validation.
func WithStrictOpenAPI(strict bool) Option {
	return func(opts *Options) {
		opts.StrictOpenAPI = strict
	}
}

// WithLogger routes loader logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
