package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oenolab/cepage/pkg/cepage/artifact"
	"github.com/oenolab/cepage/pkg/cepage/internalerr"
)

// Config is the operator-facing application configuration.
type Config struct {
	Artifacts    ArtifactPaths `yaml:"artifacts"`
	HistoryDB    string        `yaml:"history_db"`
	ModelVersion string        `yaml:"model_version"`
}

// ArtifactPaths lists the locations of the five fitted artifacts.
type ArtifactPaths struct {
	Vectorizer       string `yaml:"vectorizer"`
	Encoder          string `yaml:"encoder"`
	Scaler           string `yaml:"scaler"`
	Forest           string `yaml:"forest"`
	GradientBoosting string `yaml:"gradient_boosting"`
}

// Load reads the configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.ModelVersion == "" {
		cfg.ModelVersion = "1.0.0"
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"artifacts.vectorizer":        c.Artifacts.Vectorizer,
		"artifacts.encoder":           c.Artifacts.Encoder,
		"artifacts.scaler":            c.Artifacts.Scaler,
		"artifacts.forest":            c.Artifacts.Forest,
		"artifacts.gradient_boosting": c.Artifacts.GradientBoosting,
	}
	for field, val := range required {
		if val == "" {
			return fmt.Errorf("%w: %s path missing", internalerr.ErrInvalidConfig, field)
		}
	}
	return nil
}

// Loader returns the artifact loader for the configured paths.
func (c *Config) Loader() artifact.Loader {
	return artifact.Loader{
		VectorizerPath: c.Artifacts.Vectorizer,
		EncoderPath:    c.Artifacts.Encoder,
		ScalerPath:     c.Artifacts.Scaler,
		ForestPath:     c.Artifacts.Forest,
		GBTPath:        c.Artifacts.GradientBoosting,
	}
}
