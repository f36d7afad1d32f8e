// Package config loads the declarative run configuration for a screening
// analysis: input paths, modeling hyperparameters and diagnostic policy.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/reshape"
)

// RunConfig describes one analysis run.
type RunConfig struct {
	// AnnotationPath is the plate-layout CSV (well position, group, gene symbol).
	AnnotationPath string `yaml:"annotation"`

	// CountsPath is the phenotype-class count matrix CSV.
	CountsPath string `yaml:"counts"`

	// Neighbors is the k of the nearest-neighbor classifier.
	Neighbors int `yaml:"neighbors"`

	// TestFraction is the held-out share of wells, in (0, 1).
	TestFraction float64 `yaml:"test_fraction"`

	// Seed drives the train/test shuffle.
	Seed uint64 `yaml:"seed"`

	// ClampEpsilon is the proportion clamp for the logit transform.
	// An explicit 0 disables clamping and makes degenerate cells fatal.
	// Omitted, it defaults to reshape.DefaultClampEpsilon.
	ClampEpsilon *float64 `yaml:"clamp_epsilon"`

	// StrictIdentifiers makes unmatched well identifiers abort the join
	// instead of being dropped and reported.
	StrictIdentifiers bool `yaml:"strict_identifiers"`

	// ScatterPath, if set, is where the PC1/PC2 scatter plot is written.
	ScatterPath string `yaml:"scatter"`

	// Components is the number of principal components kept (0 = all).
	Components int `yaml:"components"`
}

// Default returns a RunConfig with the default modeling parameters. Input
// paths must still be set by the caller.
func Default() RunConfig {
	return RunConfig{
		Neighbors:    5,
		TestFraction: 0.3,
		Seed:         1,
	}
}

// Epsilon returns the effective logit clamp.
func (c *RunConfig) Epsilon() float64 {
	if c.ClampEpsilon == nil {
		return reshape.DefaultClampEpsilon
	}
	return *c.ClampEpsilon
}

// Validate checks the configuration for a runnable analysis.
func (c *RunConfig) Validate() error {
	if c.AnnotationPath == "" {
		return errors.NewValidationError("annotation", "annotation path must be set", c.AnnotationPath)
	}
	if c.CountsPath == "" {
		return errors.NewValidationError("counts", "counts path must be set", c.CountsPath)
	}
	if c.Neighbors < 1 {
		return errors.NewValidationError("neighbors", "must be >= 1", c.Neighbors)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return errors.NewValidationError("test_fraction", "must be in (0, 1)", c.TestFraction)
	}
	if eps := c.Epsilon(); eps < 0 || eps >= 0.5 {
		return errors.NewValidationError("clamp_epsilon", "must be in [0, 0.5)", eps)
	}
	if c.Components < 0 {
		return errors.NewValidationError("components", "must be >= 0", c.Components)
	}
	return nil
}

// Load reads a RunConfig from a YAML file, applying defaults for omitted
// modeling parameters, and validates it.
func Load(path string) (RunConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.NewMissingInputError(path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing run config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
