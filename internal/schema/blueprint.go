package schema

import (
	"strings"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/envscan"
)

// FromBlueprint normalizes a parsed blueprint into the neutral model.
func FromBlueprint(name string, bp *blueprint.Blueprint) *Project {
	project := NewProject(name)

	for _, svc := range bp.Services {
		service := NewService(svc.Name)
		service.Network = networkFor(svc)
		service.Runtime = runtimeFor(svc)
		service.Build = buildFor(svc)
		service.BuildCommand = svc.BuildCommand
		service.StartCommand = svc.StartCommand
		service.Schedule = svc.Schedule

		if svc.Image != nil {
			service.Image = svc.Image.URL
		}

		for _, ev := range svc.EnvVars {
			key, envVar, ok := normalizeEnvVar(bp, ev)
			if !ok {
				continue
			}
			service.Environment[key] = envVar

			if ev.FromDatabase != nil {
				service.Dependencies = appendUnique(service.Dependencies, ev.FromDatabase.Name)
			}
			if ev.FromService != nil {
				service.Dependencies = appendUnique(service.Dependencies, ev.FromService.Name)
			}
		}

		project.AddService(service)
	}

	for _, db := range bp.Databases {
		database := Database{
			Name:         db.Name,
			Engine:       "postgres",
			Plan:         db.Plan,
			InternalOnly: db.IPAllowList != nil && len(db.IPAllowList) == 0,
		}
		for _, entry := range db.IPAllowList {
			database.AllowedCIDRs = append(database.AllowedCIDRs, entry.Source)
		}
		project.AddDatabase(database)
	}

	return project
}

func normalizeEnvVar(bp *blueprint.Blueprint, ev blueprint.EnvVar) (string, EnvVar, bool) {
	if ev.FromGroup != "" {
		// Group references expand elsewhere; record the membership only.
		return "", EnvVar{}, false
	}
	if ev.Key == "" {
		return "", EnvVar{}, false
	}

	_, sensitive := envscan.Classify(ev.Key, ev.Value)

	switch {
	case ev.GenerateValue:
		return ev.Key, NewEnvVar("", "generated", true), true
	case ev.FromDatabase != nil:
		return ev.Key, NewEnvVar("", "database", true), true
	case ev.FromService != nil:
		return ev.Key, NewEnvVar("", "service", false), true
	case ev.Value != "":
		return ev.Key, NewEnvVar(ev.Value, "literal", sensitive), true
	default:
		// sync: false and similar dashboard-supplied values
		return ev.Key, NewEnvVar("", "external", true), true
	}
}

func networkFor(svc blueprint.Service) Network {
	switch svc.Type {
	case "web", "static":
		return NetworkPublic
	case "cron":
		return NetworkNone
	default:
		return NetworkPrivate
	}
}

func runtimeFor(svc blueprint.Service) Runtime {
	if svc.Type == "cron" || svc.Schedule != "" {
		return RuntimeScheduled
	}
	return RuntimeContinuous
}

func buildFor(svc blueprint.Service) Build {
	if svc.Image != nil && svc.Image.URL != "" {
		return BuildFromImage
	}
	if strings.EqualFold(svc.RuntimeName(), "image") {
		return BuildFromImage
	}
	return BuildFromSource
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
