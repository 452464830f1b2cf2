// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package platform

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPlatformFile = errors.New("invalid platform file")

// File is the on-disk shape of a registry override file
type File struct {
	Platforms map[string]Platform `yaml:"platforms"`
}

// LoadFile reads a YAML platform file and merges it over the built-in registry.
// Entries for built-in IDs replace them; new IDs are appended in sorted order.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML platform definitions over the built-in registry
func Parse(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlatformFile, err)
	}

	base := Default()
	var extra []Platform

	// Built-ins keep their slot, new IDs go after them alphabetically
	keys := make([]string, 0, len(f.Platforms))
	for k := range f.Platforms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		id := ID(strings.ToLower(strings.TrimSpace(k)))
		if id == "" {
			return nil, fmt.Errorf("%w: empty platform id", ErrInvalidPlatformFile)
		}
		p := f.Platforms[k]
		p.ID = id
		if p.Name == "" {
			return nil, fmt.Errorf("%w: platform %q has no name", ErrInvalidPlatformFile, id)
		}
		extra = append(extra, p)
	}

	return base.With(extra...), nil
}
