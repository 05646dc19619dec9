// Package config - Configuration for loading and rewriting COCO datasets.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes where a dataset lives and how it is read.
type Config struct {
	// Annotations is the path to the COCO JSON file.
	Annotations string `json:"annotations" yaml:"annotations"`
	// ImagesDir is the directory holding the image files (optional).
	ImagesDir string `json:"images_dir" yaml:"images_dir"`
	// RootName renames the root category when categories are rebuilt.
	// Empty keeps the name found in the annotation file.
	RootName string `json:"root_name" yaml:"root_name"`
	// SkipMissingImages drops images whose files are missing from ImagesDir.
	SkipMissingImages bool `json:"skip_missing_images" yaml:"skip_missing_images"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns a configuration with sensible defaults.
//
// Returns:
//   - Config: Default configuration
//
// @example
// cfg := config.Default()
// cfg.Annotations = "train/_annotations.coco.json"
func Default() Config {
	return Config{
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to load a dataset.
func (c Config) Validate() error {
	if c.Annotations == "" {
		return errors.New("annotations path is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.SkipMissingImages && c.ImagesDir == "" {
		return errors.New("skip_missing_images requires images_dir")
	}
	return nil
}
