package blueprint

import (
	"strings"
)

// StepKind classifies one stage of a start command chain.
type StepKind int

const (
	StepOther StepKind = iota
	StepMigrate
	StepCollectStatic
	StepServer
)

func (k StepKind) String() string {
	switch k {
	case StepMigrate:
		return "migrate"
	case StepCollectStatic:
		return "collectstatic"
	case StepServer:
		return "server"
	default:
		return "other"
	}
}

// Step is one command in a `a && b && c` start chain.
type Step struct {
	Command string
	Kind    StepKind
}

// BindsPort reports whether the step references the platform-injected PORT
// variable, directly or via a shell default expansion.
func (s Step) BindsPort() bool {
	return strings.Contains(s.Command, "$PORT") || strings.Contains(s.Command, "${PORT")
}

// Well-known process launchers, keyed on the first meaningful token.
var serverCommands = map[string]bool{
	"uvicorn": true, "gunicorn": true, "daphne": true, "hypercorn": true,
	"node": true, "puma": true, "unicorn": true, "rails": true,
	"flask": true, "waitress-serve": true,
}

// Package managers launch whatever script they are told to; only serve-style
// scripts make them servers, `npm run build` and friends do not.
var packageManagers = map[string]bool{
	"npm": true, "yarn": true, "pnpm": true, "bun": true,
}

var serverScripts = map[string]bool{
	"start": true, "serve": true, "dev": true, "preview": true,
}

// SplitStartCommand splits a shell command chain on && into its ordered,
// classified steps. Quoting is not interpreted beyond keeping && inside
// single or double quotes intact, which covers real start commands.
func SplitStartCommand(command string) []Step {
	var steps []Step
	for _, part := range splitChain(command) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		steps = append(steps, Step{Command: part, Kind: classifyStep(part)})
	}
	return steps
}

func splitChain(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == '&' && i+1 < len(runes) && runes[i+1] == '&':
			parts = append(parts, current.String())
			current.Reset()
			i++ // skip second &
		default:
			current.WriteRune(r)
		}
	}

	parts = append(parts, current.String())
	return parts
}

func classifyStep(command string) StepKind {
	lower := strings.ToLower(command)
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return StepOther
	}

	// Django management commands and the common migration runners
	if strings.Contains(lower, "manage.py migrate") ||
		strings.Contains(lower, "alembic upgrade") ||
		strings.Contains(lower, "db:migrate") ||
		strings.Contains(lower, "migrate deploy") ||
		strings.Contains(lower, "flask db upgrade") ||
		strings.Contains(lower, "aerich upgrade") {
		return StepMigrate
	}

	if strings.Contains(lower, "collectstatic") {
		return StepCollectStatic
	}

	// python -m uvicorn, poetry run gunicorn, etc. hide the launcher deeper
	// in the command line
	for i, field := range fields {
		base := field[strings.LastIndex(field, "/")+1:]
		if serverCommands[base] {
			return StepServer
		}
		if packageManagers[base] && runsServerScript(fields[i+1:]) {
			return StepServer
		}
	}

	return StepOther
}

// runsServerScript reports whether a package manager invocation runs a script
// that serves, e.g. `npm start` or `yarn run dev`.
func runsServerScript(args []string) bool {
	for _, arg := range args {
		if arg == "run" || arg == "run-script" || arg == "exec" || strings.HasPrefix(arg, "-") {
			continue
		}
		return serverScripts[arg]
	}
	return false
}

// FirstStep returns the index of the first step of the given kind, or -1.
func FirstStep(steps []Step, kind StepKind) int {
	for i, step := range steps {
		if step.Kind == kind {
			return i
		}
	}
	return -1
}
