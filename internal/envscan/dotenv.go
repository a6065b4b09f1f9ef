package envscan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type DotEnvExtractor struct{}

func NewDotEnvExtractor() *DotEnvExtractor {
	return &DotEnvExtractor{}
}

func (d *DotEnvExtractor) CanHandle(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.HasPrefix(base, ".env")
}

func (d *DotEnvExtractor) Extract(ctx context.Context, filename string, content []byte) ([]Finding, error) {
	env, err := godotenv.Unmarshal(string(content))
	if err != nil {
		return nil, err
	}

	var findings []Finding
	confidence := d.fileConfidence(filepath.Base(filename))

	for key, value := range env {
		if ShouldIgnore(key) {
			continue
		}

		envType, sensitive := Classify(key, value)
		findings = append(findings, Finding{
			VarName:    key,
			Value:      value,
			Type:       envType,
			Sensitive:  sensitive,
			Source:     fmt.Sprintf("dotenv:%s", filename),
			Confidence: confidence,
		})
	}

	return findings, nil
}

func (d *DotEnvExtractor) fileConfidence(filename string) int {
	switch {
	case filename == ".env":
		return 85
	case strings.Contains(filename, "production"):
		return 90
	case strings.Contains(filename, "example") || strings.Contains(filename, "sample"):
		return 30 // templates document names, not real values
	default:
		return 75
	}
}
