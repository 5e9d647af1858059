package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/rdfquery/pkg/engine"
)

// cliConfig is the on-disk shape of an optional config file supplying
// default EvalOptions, loaded the way apoc.Config is in the pack
// (YAML file, falling back to built-in defaults when absent).
type cliConfig struct {
	Optimizer string `yaml:"optimizer"`
	Condition bool   `yaml:"condition"`
	Log       bool   `yaml:"log"`
}

func defaultConfig() cliConfig {
	return cliConfig{Optimizer: "ARQ/PFJ"}
}

// loadConfig reads path if it exists, falling back to defaultConfig()
// when it doesn't. A present-but-unreadable or malformed file is an
// error.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cliConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func (c cliConfig) evalOptions(dryrun bool) engine.EvalOptions {
	return engine.EvalOptions{
		Optimizer: c.Optimizer,
		Condition: c.Condition,
		Dryrun:    dryrun,
		Log:       c.Log,
	}
}
