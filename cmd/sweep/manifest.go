package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest names the trace files a sweep should evaluate.
type Manifest struct {
	Traces []string `json:"traces"`
}

// LoadManifest loads a Manifest from a JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse sweep manifest: %w", err)
	}

	return &m, m.Validate()
}

// Validate checks that the manifest names at least one trace.
func (m *Manifest) Validate() error {
	if len(m.Traces) == 0 {
		return fmt.Errorf("manifest must name at least one trace")
	}
	return nil
}
