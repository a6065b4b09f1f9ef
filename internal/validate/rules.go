package validate

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/envscan"
)

func checkUniqueNames(report *Report, bp *blueprint.Blueprint) {
	seenServices := make(map[string]bool)
	for i, svc := range bp.Services {
		if svc.Name == "" {
			continue
		}
		if seenServices[svc.Name] {
			report.errorf("duplicate-service-name", fmt.Sprintf("services[%d]", i),
				"service %q is declared more than once", svc.Name)
		}
		seenServices[svc.Name] = true
	}

	seenDatabases := make(map[string]bool)
	for i, db := range bp.Databases {
		if db.Name == "" {
			continue
		}
		if seenDatabases[db.Name] {
			report.errorf("duplicate-database-name", fmt.Sprintf("databases[%d]", i),
				"database %q is declared more than once", db.Name)
		}
		seenDatabases[db.Name] = true
	}

	seenGroups := make(map[string]bool)
	for i, group := range bp.EnvVarGroups {
		if group.Name == "" {
			report.errorf("group-name-required", fmt.Sprintf("envVarGroups[%d]", i),
				"env var group has no name")
			continue
		}
		if seenGroups[group.Name] {
			report.errorf("duplicate-group-name", fmt.Sprintf("envVarGroups[%d]", i),
				"env var group %q is declared more than once", group.Name)
		}
		seenGroups[group.Name] = true
	}
}

func checkService(report *Report, bp *blueprint.Blueprint, index int) {
	svc := bp.Services[index]
	path := fmt.Sprintf("services[%d]", index)
	if svc.Name != "" {
		path = fmt.Sprintf("services[%d] (%s)", index, svc.Name)
	}

	if svc.Name == "" {
		report.errorf("service-name-required", path, "service has no name")
	}

	switch {
	case svc.Type == "":
		report.errorf("service-type-required", path, "service has no type")
	case !blueprint.Known(blueprint.ServiceTypes, svc.Type):
		report.errorf("unknown-service-type", path,
			"unknown service type %q (known: %s)", svc.Type, strings.Join(blueprint.ServiceTypes, ", "))
	}

	if runtime := svc.RuntimeName(); runtime != "" && !blueprint.Known(blueprint.Runtimes, runtime) {
		report.errorf("unknown-runtime", path,
			"unknown runtime %q (known: %s)", runtime, strings.Join(blueprint.Runtimes, ", "))
	}

	if svc.Runtime != "" && svc.Env != "" {
		report.warnf("runtime-env-both-set", path,
			"both runtime and its legacy alias env are set; runtime %q wins", svc.Runtime)
	}

	if svc.Plan != "" && !blueprint.Known(blueprint.ServicePlans, svc.Plan) {
		report.errorf("unknown-plan", path,
			"unknown plan %q (known: %s)", svc.Plan, strings.Join(blueprint.ServicePlans, ", "))
	}

	hasImage := svc.Image != nil && svc.Image.URL != ""

	switch svc.Type {
	case "cron":
		if svc.Schedule == "" {
			report.errorf("cron-schedule-required", path, "cron service has no schedule")
		}
	case "static":
		if svc.StaticPublishPath == "" {
			report.warnf("static-publish-path", path,
				"static site does not set staticPublishPath; the platform default applies")
		}
	default:
		if svc.Schedule != "" {
			report.errorf("schedule-on-non-cron", path,
				"schedule is only valid on cron services, not type %q", svc.Type)
		}
	}

	if svc.Type == "web" && svc.StartCommand == "" && !hasImage {
		report.errorf("start-command-required", path,
			"web service needs a startCommand or a prebuilt image")
	}

	if svc.Scaling != nil {
		if svc.NumInstances > 0 {
			report.warnf("scaling-conflict", path,
				"numInstances is ignored when scaling bounds are set")
		}
		if svc.Scaling.MinInstances > svc.Scaling.MaxInstances {
			report.errorf("scaling-bounds", path,
				"scaling.minInstances %d exceeds maxInstances %d",
				svc.Scaling.MinInstances, svc.Scaling.MaxInstances)
		}
	}

	checkStartCommand(report, svc, path)
	checkServiceEnvVars(report, bp, svc, path)
}

// checkStartCommand enforces the launch sequence contract: schema changes
// land before assets are collected, and the server process is the final,
// foreground step.
func checkStartCommand(report *Report, svc blueprint.Service, path string) {
	if svc.StartCommand == "" {
		return
	}
	path += ".startCommand"

	steps := blueprint.SplitStartCommand(svc.StartCommand)

	migrateIdx := blueprint.FirstStep(steps, blueprint.StepMigrate)
	staticIdx := blueprint.FirstStep(steps, blueprint.StepCollectStatic)
	serverIdx := blueprint.FirstStep(steps, blueprint.StepServer)

	if migrateIdx >= 0 && staticIdx >= 0 && migrateIdx > staticIdx {
		report.errorf("start-order-migrate", path,
			"migration step runs after static collection; migrations must run first")
	}

	if serverIdx >= 0 && serverIdx != len(steps)-1 {
		report.errorf("start-order-server", path,
			"server launch %q is not the last step; later steps never run", steps[serverIdx].Command)
	}

	if svc.Type == "web" {
		if serverIdx < 0 {
			report.warnf("no-server-step", path,
				"no recognizable server process in startCommand")
		} else if !steps[serverIdx].BindsPort() {
			report.warnf("port-binding", path,
				"server step does not reference $PORT; the platform routes traffic to the injected port")
		}
	}

	if migrateIdx >= 0 && svc.PreDeployCommand != "" {
		report.infof("migrate-pre-deploy", path,
			"startCommand runs migrations even though preDeployCommand is set; consider moving them there")
	}
}

func checkServiceEnvVars(report *Report, bp *blueprint.Blueprint, svc blueprint.Service, svcPath string) {
	seen := make(map[string]int)

	for i, ev := range svc.EnvVars {
		path := fmt.Sprintf("%s.envVars[%d]", svcPath, i)
		if ev.Key != "" {
			path = fmt.Sprintf("%s.envVars[%d] (%s)", svcPath, i, ev.Key)
		}

		checkEnvVar(report, bp, ev, path)

		if ev.Key != "" {
			seen[ev.Key]++
		}

		// Group members land on the service too, so they count toward
		// the per-service declarations.
		if ev.FromGroup != "" {
			if group, ok := bp.GroupByName(ev.FromGroup); ok {
				for _, gv := range group.EnvVars {
					if gv.Key != "" {
						seen[gv.Key]++
					}
				}
			}
		}
	}

	// Each variable is declared exactly once per service
	for key, count := range seen {
		if count > 1 {
			report.errorf("duplicate-env-key", svcPath,
				"env var %q is declared %d times", key, count)
		}
	}
}

func checkEnvVar(report *Report, bp *blueprint.Blueprint, ev blueprint.EnvVar, path string) {
	if ev.FromGroup != "" {
		if ev.Key != "" || ev.Value != "" || ev.GenerateValue || ev.FromDatabase != nil || ev.FromService != nil {
			report.errorf("group-ref-exclusive", path,
				"fromGroup entries cannot set any other field")
		}
		if _, ok := bp.GroupByName(ev.FromGroup); !ok {
			report.errorf("unresolved-group", path,
				"fromGroup references undeclared env var group %q", ev.FromGroup)
		}
		return
	}

	if ev.Key == "" {
		report.errorf("env-key-required", path, "env var has no key")
	}

	sources := 0
	if ev.Value != "" {
		sources++
	}
	if ev.GenerateValue {
		sources++
	}
	if ev.FromDatabase != nil {
		sources++
	}
	if ev.FromService != nil {
		sources++
	}

	switch {
	case sources > 1:
		report.errorf("env-source-conflict", path,
			"env var sets more than one value source")
	case sources == 0:
		if ev.Sync != nil && !*ev.Sync {
			// sync: false means the value is supplied out of band
			report.infof("env-dashboard-value", path,
				"value is supplied in the dashboard at deploy time")
		} else {
			report.warnf("env-no-value", path, "env var has no value source")
		}
	}

	if ev.FromDatabase != nil {
		if _, ok := bp.DatabaseByName(ev.FromDatabase.Name); !ok {
			report.errorf("unresolved-database", path,
				"fromDatabase references undeclared database %q", ev.FromDatabase.Name)
		}
		if !blueprint.Known(blueprint.DatabaseProperties, ev.FromDatabase.Property) {
			report.errorf("unknown-database-property", path,
				"unknown database property %q (known: %s)",
				ev.FromDatabase.Property, strings.Join(blueprint.DatabaseProperties, ", "))
		}
	}

	if ev.FromService != nil {
		target, ok := bp.ServiceByName(ev.FromService.Name)
		if !ok {
			report.errorf("unresolved-service", path,
				"fromService references undeclared service %q", ev.FromService.Name)
		} else if ev.FromService.Type != "" && target.Type != ev.FromService.Type {
			report.warnf("service-ref-type", path,
				"fromService declares type %q but %q is a %s service",
				ev.FromService.Type, target.Name, target.Type)
		}

		if ev.FromService.Property != "" && ev.FromService.EnvVarKey != "" {
			report.errorf("service-ref-exclusive", path,
				"fromService cannot set both property and envVarKey")
		}
		if ev.FromService.Property != "" && !blueprint.Known(blueprint.ServiceProperties, ev.FromService.Property) {
			report.errorf("unknown-service-property", path,
				"unknown service property %q (known: %s)",
				ev.FromService.Property, strings.Join(blueprint.ServiceProperties, ", "))
		}
	}

	checkEnvVarHygiene(report, ev, path)
}

// checkEnvVarHygiene flags values that should not be committed to a manifest.
func checkEnvVarHygiene(report *Report, ev blueprint.EnvVar, path string) {
	if ev.Key == "" {
		return
	}

	if ev.Value != "" {
		if _, sensitive := envscan.Classify(ev.Key, ev.Value); sensitive {
			report.warnf("inline-secret", path,
				"%s looks like a secret but has an inline value; use sync: false or generateValue", ev.Key)
		}
	}

	lower := strings.ToLower(ev.Key)
	if strings.Contains(lower, "debug") && (ev.Value == "true" || ev.Value == "True" || ev.Value == "1") {
		report.warnf("debug-enabled", path,
			"%s is enabled; debug modes should default to off in deployment manifests", ev.Key)
	}
}

func checkDatabase(report *Report, bp *blueprint.Blueprint, index int) {
	db := bp.Databases[index]
	path := fmt.Sprintf("databases[%d]", index)
	if db.Name != "" {
		path = fmt.Sprintf("databases[%d] (%s)", index, db.Name)
	}

	if db.Name == "" {
		report.errorf("database-name-required", path, "database has no name")
	}

	if db.Plan != "" && !blueprint.Known(blueprint.DatabasePlans, db.Plan) {
		report.errorf("unknown-database-plan", path,
			"unknown database plan %q (known: %s)", db.Plan, strings.Join(blueprint.DatabasePlans, ", "))
	}

	switch {
	case db.IPAllowList == nil:
		report.warnf("open-allow-list", path,
			"no ipAllowList set; the database accepts connections from anywhere")
	case len(db.IPAllowList) == 0:
		report.infof("internal-only-database", path,
			"empty ipAllowList: only platform-internal services can connect")
	default:
		for i, entry := range db.IPAllowList {
			entryPath := fmt.Sprintf("%s.ipAllowList[%d]", path, i)
			if entry.Source == "" {
				report.errorf("allow-list-source-required", entryPath, "allow-list entry has no source")
				continue
			}
			if !validCIDROrIP(entry.Source) {
				report.errorf("allow-list-source-invalid", entryPath,
					"%q is not a valid IP address or CIDR block", entry.Source)
			}
		}
	}
}

func validCIDROrIP(source string) bool {
	if _, err := netip.ParsePrefix(source); err == nil {
		return true
	}
	if _, err := netip.ParseAddr(source); err == nil {
		return true
	}
	return false
}

func checkEnvVarGroup(report *Report, bp *blueprint.Blueprint, index int) {
	group := bp.EnvVarGroups[index]
	path := fmt.Sprintf("envVarGroups[%d] (%s)", index, group.Name)

	seen := make(map[string]int)
	for i, ev := range group.EnvVars {
		evPath := fmt.Sprintf("%s.envVars[%d]", path, i)

		if ev.FromGroup != "" || ev.FromDatabase != nil || ev.FromService != nil {
			report.errorf("group-var-literal-only", evPath,
				"group env vars must carry literal or generated values")
			continue
		}

		checkEnvVar(report, bp, ev, evPath)
		if ev.Key != "" {
			seen[ev.Key]++
		}
	}

	for key, count := range seen {
		if count > 1 {
			report.errorf("duplicate-env-key", path,
				"env var %q is declared %d times", key, count)
		}
	}
}

func checkPreviews(report *Report, bp *blueprint.Blueprint) {
	if bp.Previews == nil || bp.Previews.Generation == "" {
		return
	}
	if !blueprint.Known(blueprint.PreviewGenerations, bp.Previews.Generation) {
		report.errorf("unknown-preview-generation", "previews.generation",
			"unknown generation %q (known: %s)",
			bp.Previews.Generation, strings.Join(blueprint.PreviewGenerations, ", "))
	}
}
