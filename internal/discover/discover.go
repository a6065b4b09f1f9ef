// Package discover locates blueprint files in a source tree and checks them.
package discover

import (
	"context"
	"sort"
	"strings"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/validate"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of parsing and validating one blueprint file.
type Result struct {
	Path      string
	Blueprint *blueprint.Blueprint
	Report    *validate.Report
	Err       error
}

// Directories that never hold a deployment manifest worth reporting.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true,
	"venv": true, ".venv": true, "__pycache__": true,
	"dist": true, "build": true, "target": true, "staticfiles": true,
}

// Finder walks source trees looking for render.yaml blueprints.
type Finder struct {
	filesystem fsys.FileSystem
}

func NewFinder(filesystem fsys.FileSystem) *Finder {
	return &Finder{filesystem: filesystem}
}

// FindBlueprints returns every render.yaml (or render.yml) under root,
// sorted for stable output.
func (f *Finder) FindBlueprints(ctx context.Context, root string) ([]string, error) {
	var paths []string

	err := f.filesystem.Walk(root, func(path string, info fsys.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries don't abort discovery
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if info.IsDir() {
			if skipDirs[info.Name()] {
				return fsys.SkipDir
			}
			return nil
		}

		name := strings.ToLower(info.Name())
		if name == "render.yaml" || name == "render.yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// CheckAll parses and validates every blueprint concurrently. Parse and
// validation failures land in the per-file result rather than aborting the
// whole run.
func (f *Finder) CheckAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := Result{Path: path}
			bp, err := blueprint.ParseFile(f.filesystem, path)
			if err != nil {
				result.Err = err
			} else {
				result.Blueprint = bp
				result.Report = validate.Check(bp)
			}

			results[i] = result
			return nil
		})
	}

	// Only context cancellation propagates here; swallow it into results.
	_ = g.Wait()

	return results
}
