package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
)

// EnvPrefix namespaces environment overrides, e.g. STUDIO_LOG_LEVEL.
const EnvPrefix = "STUDIO"

const (
	keySchemaPath      = "schema"
	keyRenderer        = "renderer"
	keyTemplatesDir    = "templates_dir"
	keyLogLevel        = "log_level"
	keyMaxRefDepth     = "max_ref_depth"
	keyMaxDepth        = "max_depth"
	keyDeclaredDefault = "declared_defaults"
	keyStrictOpenAPI   = "strict_openapi"
	keyHTTPTimeout     = "http_timeout"
)

// Config is the studio's runtime configuration, merged from defaults, an
// optional config file, and STUDIO_* environment variables.
type Config struct {
	SchemaPath          string        `mapstructure:"schema"`
	Renderer            string        `mapstructure:"renderer"`
	TemplatesDir        string        `mapstructure:"templates_dir"`
	LogLevel            string        `mapstructure:"log_level"`
	MaxRefDepth         int           `mapstructure:"max_ref_depth"`
	MaxDepth            int           `mapstructure:"max_depth"`
	UseDeclaredDefaults bool          `mapstructure:"declared_defaults"`
	StrictOpenAPI       bool          `mapstructure:"strict_openapi"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(keySchemaPath, "")
	v.SetDefault(keyRenderer, "template")
	v.SetDefault(keyTemplatesDir, "")
	v.SetDefault(keyLogLevel, logrus.InfoLevel.String())
	v.SetDefault(keyMaxRefDepth, 64)
	v.SetDefault(keyMaxDepth, 32)
	v.SetDefault(keyDeclaredDefault, false)
	v.SetDefault(keyStrictOpenAPI, false)
	v.SetDefault(keyHTTPTimeout, 10*time.Second)
}

// New returns a viper instance wired with defaults and environment lookup.
// A non-empty path is read as the config file.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return v, nil
}

// Load builds a viper instance for path and decodes it.
func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config: viper instance is nil")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the interpreter and logger cannot accept.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if c.MaxRefDepth < 0 {
		return fmt.Errorf("config: max_ref_depth must not be negative, got %d", c.MaxRefDepth)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("config: max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// InterpreterOptions translates the limits into interpreter options.
func (c Config) InterpreterOptions() []jsonschema.Option {
	return []jsonschema.Option{
		jsonschema.WithMaxRefDepth(c.MaxRefDepth),
		jsonschema.WithMaxDepth(c.MaxDepth),
		jsonschema.WithDeclaredDefaults(c.UseDeclaredDefaults),
	}
}

// Interpreter constructs an interpreter from the configured limits.
func (c Config) Interpreter() *jsonschema.Interpreter {
	return jsonschema.New(c.InterpreterOptions()...)
}
