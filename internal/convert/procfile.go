package convert

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
)

type ProcfileConverter struct{}

func NewProcfileConverter() *ProcfileConverter {
	return &ProcfileConverter{}
}

func (p *ProcfileConverter) Name() string {
	return "procfile"
}

func (p *ProcfileConverter) CanConvert(filename string) bool {
	return strings.EqualFold(filepath.Base(filename), "Procfile")
}

// Convert maps Procfile process types onto services: web stays a web
// service, release becomes the web service's preDeployCommand, and every
// other process type becomes a worker.
func (p *ProcfileConverter) Convert(ctx context.Context, filesystem fsys.FileSystem, path string) (*blueprint.Blueprint, error) {
	processes, err := p.parse(filesystem, path)
	if err != nil {
		return nil, err
	}
	if len(processes) == 0 {
		return nil, fmt.Errorf("%s: no process types declared", path)
	}

	appName := filepath.Base(filepath.Dir(path))
	releaseCommand := processes["release"]

	types := make([]string, 0, len(processes))
	for processType := range processes {
		if processType != "release" {
			types = append(types, processType)
		}
	}
	sort.Strings(types)

	bp := &blueprint.Blueprint{}
	for _, processType := range types {
		command := processes[processType]

		svc := blueprint.Service{
			Name:         appName + "-" + processType,
			Type:         "worker",
			StartCommand: command,
		}
		if processType == "web" {
			svc.Name = appName
			svc.Type = "web"
			svc.PreDeployCommand = releaseCommand
		}

		bp.Services = append(bp.Services, svc)
	}

	return bp, nil
}

func (p *ProcfileConverter) parse(filesystem fsys.FileSystem, path string) (map[string]string, error) {
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read procfile: %w", err)
	}

	processes := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(content)))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		processType := strings.TrimSpace(parts[0])
		command := strings.TrimSpace(parts[1])
		if processType != "" && command != "" {
			processes[processType] = command
		}
	}

	return processes, scanner.Err()
}
