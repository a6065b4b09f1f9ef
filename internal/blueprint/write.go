package blueprint

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal encodes a blueprint back to render.yaml form with two-space
// indentation, the convention Render's own examples use.
func Marshal(bp *Blueprint) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(bp); err != nil {
		return nil, fmt.Errorf("encode blueprint: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode blueprint: %w", err)
	}

	return buf.Bytes(), nil
}
