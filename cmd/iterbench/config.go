package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "iterbench.schema.json"

var ErrUnsupportedConfig = errors.New("unsupported config file extension")

// Config holds every benchmark setting. Values come from defaults, then an
// optional config file, then explicitly set flags.
type Config struct {
	Size       int    `toml:"size" yaml:"size" json:"size"`
	Threads    int    `toml:"threads" yaml:"threads" json:"threads"`
	Workers    int    `toml:"workers" yaml:"workers" json:"workers"`
	Stride     int    `toml:"stride" yaml:"stride" json:"stride"`
	Iterations int    `toml:"iterations" yaml:"iterations" json:"iterations"`
	Warmup     int    `toml:"warmup" yaml:"warmup" json:"warmup"`
	Seed       int64  `toml:"seed" yaml:"seed" json:"seed"`
	Strategy   string `toml:"strategy" yaml:"strategy" json:"strategy"`
	LogLevel   string `toml:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat  string `toml:"log_format" yaml:"log_format" json:"log_format"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		Size:       10_000_000,
		Threads:    runtime.NumCPU(),
		Workers:    0,
		Stride:     1,
		Iterations: 5,
		Warmup:     1,
		Seed:       42,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// WorkerCount resolves Workers, where 0 means one worker per CPU.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// LoadConfig decodes path over cfg according to its extension (.toml, .yaml
// or .yml). The file as written is checked against the embedded schema, so
// unknown keys are rejected, and then the merged result is checked again.
func LoadConfig(path string, cfg *Config) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".toml" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s", ErrUnsupportedConfig, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	raw := map[string]any{}
	if ext == ".toml" {
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if err := validateDocument(raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ValidationError describes the first schema violation found in a config.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "invalid config: " + e.Message
	}
	return fmt.Sprintf("invalid config at %s: %s", e.Path, e.Message)
}

// Validate checks cfg against the embedded JSON schema.
func (c Config) Validate() error {
	return validateDocument(c)
}

// validateDocument checks v, in its JSON form, against the embedded schema.
func validateDocument(v any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return firstCause(ve)
		}
		return err
	}
	return nil
}

// firstCause walks down to the innermost violation, which carries the most
// useful message.
func firstCause(ve *jsonschema.ValidationError) error {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path:    strings.TrimPrefix(ve.InstanceLocation, "/"),
		Message: ve.Message,
	}
}
