package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://collector.local/schemas/collector.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(collectorSchemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// LoadCollector loads Collector configuration.
// Search order: customPath -> ~/.collector/configs/collector.yaml -> ./configs/collector.yaml -> embedded default
func LoadCollector(customPath string) (CollectorConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultCollectorConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseCollector(data)
		if err != nil {
			return DefaultCollectorConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("collector.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseCollector(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/collector.yaml"); err == nil {
		if cfg, err := ParseCollector(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseCollector(defaultCollectorYAML)
	if err != nil {
		return DefaultCollectorConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseCollector validates data against the schema and decodes it over the
// defaults, so missing keys keep their default values.
func ParseCollector(data []byte) (CollectorConfig, error) {
	cfg := DefaultCollectorConfig()
	if err := ValidateYAML(data); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ValidateYAML checks a YAML document against the embedded schema.
func ValidateYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Round-trip through JSON so the validator sees plain JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sch, err := compileSchema()
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}
	return sch.Validate(v)
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg CollectorConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// UserConfigPath returns where LoadCollector looks for the user's file.
func UserConfigPath() string {
	return userConfigPath("collector.yaml")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".collector", "configs", filename)
}
