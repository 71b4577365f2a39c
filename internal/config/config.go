// Package config loads the device runtime configuration: embedded defaults,
// an optional YAML file on top, then command line overrides.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"lifeboard/internal/core"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON string

// Config holds every runtime setting of the device.
type Config struct {
	Variant      string `yaml:"variant" json:"variant"`
	Hz           int    `yaml:"hz" json:"hz"`
	Seed         uint32 `yaml:"seed" json:"seed"`   // 0 seeds from the clock
	Cycle        uint64 `yaml:"cycle" json:"cycle"` // generations per scene
	StartScene   int    `yaml:"start_scene" json:"start_scene"`
	SplashFrames int    `yaml:"splash_frames" json:"splash_frames"`
	Midpoint     int    `yaml:"midpoint" json:"midpoint"` // 0 uses the variant value

	Viewport  ViewportConfig  `yaml:"viewport" json:"viewport"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Observer  ObserverConfig  `yaml:"observer" json:"observer"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
	Events    EventsConfig    `yaml:"events" json:"events"`
	Index     IndexConfig     `yaml:"index" json:"index"`
	Emulator  EmulatorConfig  `yaml:"emulator" json:"emulator"`
}

// ViewportConfig bounds how long the large-world viewport rests on a target.
type ViewportConfig struct {
	LingerMin int `yaml:"linger_min" json:"linger_min"`
	LingerMax int `yaml:"linger_max" json:"linger_max"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// ObserverConfig holds the frame observer listen address.
type ObserverConfig struct {
	Listen string `yaml:"listen" json:"listen"`
}

// TelemetryConfig enables the CSV window recorder.
type TelemetryConfig struct {
	CSV    string `yaml:"csv" json:"csv"`
	Window int    `yaml:"window" json:"window"`
}

// EventsConfig enables the compressed scene journal.
type EventsConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// IndexConfig enables the SQLite run index.
type IndexConfig struct {
	Path string `yaml:"path" json:"path"`
}

// EmulatorConfig sizes the desktop emulator window.
type EmulatorConfig struct {
	Scale    int `yaml:"scale" json:"scale"`
	HUDWidth int `yaml:"hud_width" json:"hud_width"`
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Unknown keys in the file
// are rejected.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge decodes data over c; only fields present in data are overwritten.
func (c *Config) merge(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Check validates c against the schema, normalizes it and checks the values
// the schema cannot express.
func (c *Config) Check() error {
	if err := c.validateSchema(); err != nil {
		return err
	}
	c.Normalize()
	return c.Validate()
}

func (c *Config) validateSchema() error {
	schema, err := jsonschema.CompileString("schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Normalize canonicalises free-form strings.
func (c *Config) Normalize() {
	c.Variant = strings.ToLower(strings.TrimSpace(c.Variant))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Observer.Listen = strings.TrimSpace(c.Observer.Listen)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if _, ok := core.Lookup(c.Variant); !ok {
		return fmt.Errorf("config: unknown variant %q (available: %s)", c.Variant, strings.Join(core.Variants(), ", "))
	}
	if c.Viewport.LingerMin > c.Viewport.LingerMax {
		return fmt.Errorf("config: viewport.linger_min %d exceeds linger_max %d", c.Viewport.LingerMin, c.Viewport.LingerMax)
	}
	return nil
}

// World returns the selected variant with the midpoint override applied.
func (c *Config) World() core.Variant {
	v, _ := core.Lookup(c.Variant)
	if c.Midpoint > 0 {
		v.Midpoint = c.Midpoint
	}
	return v
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
