package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Symbols overrides the built-in word lists used by the ticker pipeline.
// Either list may be empty, in which case the built-in default stays in effect.
type Symbols struct {
	ExcludedWords  []string `yaml:"excluded_words"`
	DefaultTickers []string `yaml:"default_tickers"`
}

func LoadSymbols(path string) (*Symbols, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbols file: %w", err)
	}

	var s Symbols
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parsing symbols file: %w", err)
	}

	return &s, nil
}
