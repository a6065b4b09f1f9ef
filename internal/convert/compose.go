package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/cli"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
)

type ComposeConverter struct{}

func NewComposeConverter() *ComposeConverter {
	return &ComposeConverter{}
}

func (c *ComposeConverter) Name() string {
	return "docker-compose"
}

func (c *ComposeConverter) CanConvert(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	switch base {
	case "docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml":
		return true
	}
	return false
}

// Convert loads the compose project and maps its services onto blueprint
// records. Postgres-family containers become managed databases. The compose
// loader reads from the OS, so path must be a real file.
func (c *ComposeConverter) Convert(ctx context.Context, _ fsys.FileSystem, path string) (*blueprint.Blueprint, error) {
	projectName := strings.ToLower(filepath.Base(filepath.Dir(path)))

	options, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithOsEnv,
		cli.WithName(projectName),
	)
	if err != nil {
		return nil, fmt.Errorf("compose project options: %w", err)
	}

	project, err := options.LoadProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("load compose project: %w", err)
	}

	bp := &blueprint.Blueprint{}

	names := make([]string, 0, len(project.Services))
	for name := range project.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		composeService := project.Services[name]

		if isPostgresImage(composeService.Image) {
			bp.Databases = append(bp.Databases, blueprint.Database{
				Name:        composeService.Name,
				IPAllowList: []blueprint.AllowedCIDR{},
			})
			continue
		}

		bp.Services = append(bp.Services, c.convertService(composeService))
	}

	return bp, nil
}

func (c *ComposeConverter) convertService(composeService composetypes.ServiceConfig) blueprint.Service {
	svc := blueprint.Service{
		Type:    "worker",
		Name:    composeService.Name,
		Runtime: "docker",
	}

	// Published ports mean the service expects inbound traffic
	for _, port := range composeService.Ports {
		if port.Published != "" {
			svc.Type = "web"
			break
		}
	}

	if composeService.Image != "" && composeService.Build == nil {
		svc.Runtime = "image"
		svc.Image = &blueprint.Image{URL: composeService.Image}
	}

	if len(composeService.Command) > 0 {
		svc.StartCommand = strings.Join(composeService.Command, " ")
	}

	keys := make([]string, 0, len(composeService.Environment))
	for key := range composeService.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := composeService.Environment[key]
		if value == nil {
			continue
		}
		svc.EnvVars = append(svc.EnvVars, blueprint.EnvVar{Key: key, Value: *value})
	}

	return svc
}

func isPostgresImage(image string) bool {
	image = strings.ToLower(image)
	base := image
	if idx := strings.Index(image, ":"); idx >= 0 {
		base = image[:idx]
	}
	return base == "postgres" || strings.HasSuffix(base, "/postgres") ||
		strings.Contains(base, "pgvector") || strings.Contains(base, "timescaledb")
}
