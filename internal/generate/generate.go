// Package generate detects the application framework in a source tree and
// emits a starter blueprint for it.
package generate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/envscan"
	"github.com/deployctl/blueprint/internal/fsys"
)

// Framework identifies a detected application stack.
type Framework int

const (
	FrameworkUnknown Framework = iota
	FrameworkDjango
	FrameworkNode
	FrameworkGo
	FrameworkDocker
)

func (f Framework) String() string {
	switch f {
	case FrameworkDjango:
		return "django"
	case FrameworkNode:
		return "node"
	case FrameworkGo:
		return "go"
	case FrameworkDocker:
		return "docker"
	default:
		return "unknown"
	}
}

// Generator inspects a source tree and produces a starter blueprint.
type Generator struct {
	filesystem fsys.FileSystem
	scanner    *envscan.Scanner
}

func NewGenerator(filesystem fsys.FileSystem) *Generator {
	return &Generator{
		filesystem: filesystem,
		scanner:    envscan.NewScanner(filesystem),
	}
}

// Detect identifies the framework rooted at the given directory.
func (g *Generator) Detect(root string) (Framework, error) {
	checks := []struct {
		filename  string
		framework Framework
	}{
		{"manage.py", FrameworkDjango},
		{"package.json", FrameworkNode},
		{"go.mod", FrameworkGo},
		{"Dockerfile", FrameworkDocker},
	}

	for _, check := range checks {
		path, err := fsys.FindFile(g.filesystem, root, check.filename)
		if err != nil {
			return FrameworkUnknown, err
		}
		if path != "" {
			return check.framework, nil
		}
	}

	return FrameworkUnknown, nil
}

// Generate produces a blueprint for the app rooted at the given directory.
// The service name defaults to the directory name.
func (g *Generator) Generate(ctx context.Context, root, name string) (*blueprint.Blueprint, error) {
	framework, err := g.Detect(root)
	if err != nil {
		return nil, err
	}
	if framework == FrameworkUnknown {
		return nil, fmt.Errorf("no recognizable application in %s", root)
	}

	if name == "" {
		name = strings.ToLower(g.filesystem.Base(root))
	}

	var bp *blueprint.Blueprint
	switch framework {
	case FrameworkDjango:
		bp = g.djangoBlueprint(root, name)
	case FrameworkNode:
		bp = g.nodeBlueprint(name)
	case FrameworkGo:
		bp = g.goBlueprint(name)
	case FrameworkDocker:
		bp = g.dockerBlueprint(name)
	}

	if err := g.mergeScannedEnv(ctx, root, bp); err != nil {
		return nil, err
	}

	return bp, nil
}

// djangoBlueprint reproduces the conventional Django deployment: install
// requirements, run migrations, collect static assets, then hand off to an
// ASGI server bound to the platform port.
func (g *Generator) djangoBlueprint(root, name string) *blueprint.Blueprint {
	dbName := name + "-db"
	autoDeploy := true

	start := fmt.Sprintf(
		"python manage.py migrate && python manage.py collectstatic --noinput && uvicorn %s --host 0.0.0.0 --port $PORT",
		g.asgiEntryPoint(root),
	)

	return &blueprint.Blueprint{
		Services: []blueprint.Service{{
			Type:         "web",
			Name:         name,
			Runtime:      "python",
			Plan:         "free",
			BuildCommand: "pip install -r requirements.txt",
			StartCommand: start,
			AutoDeploy:   &autoDeploy,
			EnvVars: []blueprint.EnvVar{
				{Key: "SECRET_KEY", GenerateValue: true},
				{Key: "DEBUG", Value: "false"},
				{Key: "ALLOWED_HOSTS", Value: "*"},
				{Key: "DATABASE_URL", FromDatabase: &blueprint.EnvFromDB{
					Name:     dbName,
					Property: "connectionString",
				}},
				{Key: "PYTHON_VERSION", Value: "3.11.9"},
			},
		}},
		Databases: []blueprint.Database{{
			Name:        dbName,
			Plan:        "free",
			IPAllowList: []blueprint.AllowedCIDR{},
		}},
	}
}

// asgiEntryPoint finds the Django project package holding asgi.py and
// returns the dotted application path uvicorn expects.
func (g *Generator) asgiEntryPoint(root string) string {
	for entry, err := range g.filesystem.ReadDir(root) {
		if err != nil || !entry.IsDir() {
			continue
		}

		pkgDir := g.filesystem.Join(root, entry.Name())
		if path, err := fsys.FindFile(g.filesystem, pkgDir, "asgi.py"); err == nil && path != "" {
			return entry.Name() + ".asgi:application"
		}
	}

	// conventional fallback when the project package is not laid out on disk
	return "core.asgi:application"
}

func (g *Generator) nodeBlueprint(name string) *blueprint.Blueprint {
	autoDeploy := true
	return &blueprint.Blueprint{
		Services: []blueprint.Service{{
			Type:         "web",
			Name:         name,
			Runtime:      "node",
			Plan:         "free",
			BuildCommand: "npm ci && npm run build",
			StartCommand: "npm start",
			AutoDeploy:   &autoDeploy,
			EnvVars: []blueprint.EnvVar{
				{Key: "NODE_ENV", Value: "production"},
			},
		}},
	}
}

func (g *Generator) goBlueprint(name string) *blueprint.Blueprint {
	autoDeploy := true
	return &blueprint.Blueprint{
		Services: []blueprint.Service{{
			Type:         "web",
			Name:         name,
			Runtime:      "go",
			Plan:         "free",
			BuildCommand: "go build -o app .",
			StartCommand: "./app",
			AutoDeploy:   &autoDeploy,
		}},
	}
}

func (g *Generator) dockerBlueprint(name string) *blueprint.Blueprint {
	autoDeploy := true
	return &blueprint.Blueprint{
		Services: []blueprint.Service{{
			Type:       "web",
			Name:       name,
			Runtime:    "docker",
			Plan:       "free",
			AutoDeploy: &autoDeploy,
		}},
	}
}

// mergeScannedEnv folds env vars found in the source tree into the first
// service. Sensitive variables become dashboard-supplied (sync: false) so
// their values never land in the manifest.
func (g *Generator) mergeScannedEnv(ctx context.Context, root string, bp *blueprint.Blueprint) error {
	if len(bp.Services) == 0 {
		return nil
	}

	found, err := g.scanner.Scan(ctx, root)
	if err != nil {
		return fmt.Errorf("scan environment: %w", err)
	}

	svc := &bp.Services[0]
	declared := make(map[string]bool)
	for _, ev := range svc.EnvVars {
		declared[ev.Key] = true
	}

	names := make([]string, 0, len(found))
	for name := range found {
		if !declared[name] && name != "PORT" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	noSync := false
	for _, name := range names {
		finding := found[name]
		if finding.Sensitive {
			svc.EnvVars = append(svc.EnvVars, blueprint.EnvVar{Key: name, Sync: &noSync})
		} else {
			svc.EnvVars = append(svc.EnvVars, blueprint.EnvVar{Key: name, Value: finding.Value})
		}
	}

	return nil
}
