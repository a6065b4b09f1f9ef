// Package convert produces blueprints from other deployment formats:
// docker-compose projects, fly.toml apps, and Heroku Procfiles.
package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
)

// ErrNoConverter indicates the file is not a recognized deployment format.
var ErrNoConverter = errors.New("no converter for file")

// Converter turns one foreign manifest format into a blueprint.
type Converter interface {
	// Name is the format name, e.g. "docker-compose"
	Name() string

	// CanConvert reports whether the converter handles the given file
	CanConvert(filename string) bool

	// Convert parses the file and produces an equivalent blueprint
	Convert(ctx context.Context, filesystem fsys.FileSystem, path string) (*blueprint.Blueprint, error)
}

// Converters returns every registered converter.
func Converters() []Converter {
	return []Converter{
		NewComposeConverter(),
		NewFlyConverter(),
		NewProcfileConverter(),
	}
}

// ForFile returns the converter that handles the given file.
func ForFile(path string) (Converter, error) {
	for _, converter := range Converters() {
		if converter.CanConvert(path) {
			return converter, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoConverter, path)
}
