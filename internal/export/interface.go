package export

import (
	"errors"
	"fmt"

	"github.com/deployctl/blueprint/internal/schema"
)

// ErrUnknownFormat indicates no exporter is registered for a format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter defines the interface for exporting projects to various formats
type Exporter interface {
	// Export converts a project to the target format
	Export(project *schema.Project) ([]byte, error)

	// Name returns the exporter name (e.g., "json", "yaml")
	Name() string
}

// ForFormat returns the exporter registered under the given name.
func ForFormat(format string) (Exporter, error) {
	for _, exporter := range []Exporter{NewJSONExporter(), NewYAMLExporter()} {
		if exporter.Name() == format {
			return exporter, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}
