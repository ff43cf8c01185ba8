// Package config loads runtime settings from an optional YAML file, an
// optional .env file, and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "4.5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds runtime settings. Zero values fall back to defaults in
// the consumers (model name, base URL) or here (temperatures, delay).
type Config struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`

	// SingleTemperature is used for interactive single-review analysis,
	// BatchTemperature for dataset runs.
	SingleTemperature float64 `yaml:"single_temperature"`
	BatchTemperature  float64 `yaml:"batch_temperature"`

	// RequestDelay is the minimum spacing between model calls in batch
	// runs.
	RequestDelay Duration `yaml:"request_delay"`

	// APIKey comes from the environment, never from the YAML file.
	APIKey string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SingleTemperature: 0.9,
		BatchTemperature:  0.2,
		RequestDelay:      Duration(4500 * time.Millisecond),
	}
}

// Load reads the optional .env file, then the YAML file at path if it
// exists, then environment overrides. A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env is the usual place for the API key during development.
	_ = gotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// optional
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if model := os.Getenv("SENTIMARK_MODEL"); model != "" {
		cfg.Model = model
	}
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")

	return cfg, nil
}
