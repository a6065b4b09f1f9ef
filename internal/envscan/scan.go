package envscan

import (
	"context"
	"strings"

	"github.com/deployctl/blueprint/internal/fsys"
)

// ContentExtractor pulls env vars out of one kind of file.
type ContentExtractor interface {
	CanHandle(filename string) bool
	Extract(ctx context.Context, filename string, content []byte) ([]Finding, error)
}

// Scanner walks a source tree applying every registered extractor.
type Scanner struct {
	filesystem fsys.FileSystem
	extractors []ContentExtractor
}

func NewScanner(filesystem fsys.FileSystem, extractors ...ContentExtractor) *Scanner {
	if len(extractors) == 0 {
		extractors = []ContentExtractor{
			NewDotEnvExtractor(),
			NewDockerfileExtractor(),
		}
	}
	return &Scanner{filesystem: filesystem, extractors: extractors}
}

// Directories never worth scanning: dependencies, build output, VCS state.
var excludeDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "bower_components": true,
	"venv": true, ".venv": true, "env": true, "__pycache__": true,
	"target": true, "deps": true, "_build": true,
	"dist": true, "build": true, "out": true, ".next": true, ".nuxt": true,
	"staticfiles": true, ".tox": true, ".mypy_cache": true,
}

// Scan walks root and returns findings deduplicated by variable name,
// keeping the highest-confidence source for each.
func (s *Scanner) Scan(ctx context.Context, root string) (map[string]Finding, error) {
	found := make(map[string]Finding)

	err := s.filesystem.Walk(root, func(path string, info fsys.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are not fatal to a scan
		}

		if info.IsDir() {
			if excludeDirs[info.Name()] || strings.HasPrefix(info.Name(), ".") && path != root {
				return fsys.SkipDir
			}
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		var content []byte
		for _, extractor := range s.extractors {
			if !extractor.CanHandle(path) {
				continue
			}

			if content == nil {
				content, err = s.filesystem.ReadFile(path)
				if err != nil {
					return nil
				}
			}

			findings, err := extractor.Extract(ctx, path, content)
			if err != nil {
				continue // broken file, not a broken scan
			}

			for _, finding := range findings {
				existing, exists := found[finding.VarName]
				if !exists || finding.Confidence > existing.Confidence {
					found[finding.VarName] = finding
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}
