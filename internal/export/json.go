package export

import (
	"bytes"
	"encoding/json"

	"github.com/deployctl/blueprint/internal/schema"
)

type JSONExporter struct{}

func (e *JSONExporter) Name() string {
	return "json"
}

func (e *JSONExporter) Export(project *schema.Project) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")

	if err := enc.Encode(project); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}
