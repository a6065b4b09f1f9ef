package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
)

type FlyConverter struct{}

func NewFlyConverter() *FlyConverter {
	return &FlyConverter{}
}

func (f *FlyConverter) Name() string {
	return "fly"
}

func (f *FlyConverter) CanConvert(filename string) bool {
	return strings.EqualFold(filepath.Base(filename), "fly.toml")
}

// flyConfig mirrors the fly.toml fields the conversion consumes.
type flyConfig struct {
	App           string            `toml:"app"`
	PrimaryRegion string            `toml:"primary_region"`
	Build         *flyBuild         `toml:"build"`
	Deploy        *flyDeploy        `toml:"deploy"`
	Env           map[string]string `toml:"env"`
	Services      []flyService      `toml:"services"`
	HTTPService   *flyHTTPService   `toml:"http_service"`
}

type flyBuild struct {
	Image      string `toml:"image"`
	Dockerfile string `toml:"dockerfile"`
}

type flyDeploy struct {
	ReleaseCommand string `toml:"release_command"`
	Strategy       string `toml:"strategy"`
}

type flyService struct {
	InternalPort int    `toml:"internal_port"`
	Protocol     string `toml:"protocol"`
}

type flyHTTPService struct {
	InternalPort int  `toml:"internal_port"`
	ForceHTTPS   bool `toml:"force_https"`
}

func (f *FlyConverter) Convert(ctx context.Context, filesystem fsys.FileSystem, path string) (*blueprint.Blueprint, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fly config: %w", err)
	}

	var config flyConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse fly config: %w", err)
	}

	name := config.App
	if name == "" {
		name = filepath.Base(filepath.Dir(path))
	}

	svc := blueprint.Service{
		Name:   name,
		Type:   "worker",
		Region: config.PrimaryRegion,
	}

	// An http_service or a raw service block means inbound traffic
	if config.HTTPService != nil || len(config.Services) > 0 {
		svc.Type = "web"
	}

	if config.Build != nil && config.Build.Image != "" {
		svc.Runtime = "image"
		svc.Image = &blueprint.Image{URL: config.Build.Image}
	} else {
		svc.Runtime = "docker"
	}

	if config.Deploy != nil {
		svc.PreDeployCommand = config.Deploy.ReleaseCommand
	}

	keys := make([]string, 0, len(config.Env))
	for key := range config.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		svc.EnvVars = append(svc.EnvVars, blueprint.EnvVar{Key: key, Value: config.Env[key]})
	}

	return &blueprint.Blueprint{Services: []blueprint.Service{svc}}, nil
}
