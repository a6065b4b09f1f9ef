package blueprint

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/deployctl/blueprint/internal/fsys"
	"gopkg.in/yaml.v3"
)

// Parsing errors.
var (
	// ErrEmptyBlueprint indicates a file with no services and no databases.
	ErrEmptyBlueprint = errors.New("blueprint declares no services or databases")
)

// Parse decodes a render.yaml blueprint from raw bytes. Unknown fields are
// rejected so typos surface with their line numbers instead of silently
// dropping configuration.
func Parse(data []byte) (*Blueprint, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var bp Blueprint
	if err := dec.Decode(&bp); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyBlueprint
		}
		return nil, fmt.Errorf("parse blueprint: %w", err)
	}

	if len(bp.Services) == 0 && len(bp.Databases) == 0 {
		return nil, ErrEmptyBlueprint
	}

	return &bp, nil
}

// ParseFile reads and decodes a blueprint from the given filesystem.
func ParseFile(filesystem fsys.FileSystem, path string) (*Blueprint, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint: %w", err)
	}

	bp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	bp.Path = path
	return bp, nil
}

// ServiceByName returns the declared service with the given name.
func (b *Blueprint) ServiceByName(name string) (*Service, bool) {
	for i := range b.Services {
		if b.Services[i].Name == name {
			return &b.Services[i], true
		}
	}
	return nil, false
}

// DatabaseByName returns the declared database with the given name.
func (b *Blueprint) DatabaseByName(name string) (*Database, bool) {
	for i := range b.Databases {
		if b.Databases[i].Name == name {
			return &b.Databases[i], true
		}
	}
	return nil, false
}

// GroupByName returns the declared env var group with the given name.
func (b *Blueprint) GroupByName(name string) (*EnvVarGroup, bool) {
	for i := range b.EnvVarGroups {
		if b.EnvVarGroups[i].Name == name {
			return &b.EnvVarGroups[i], true
		}
	}
	return nil, false
}
