// Package validate checks blueprints against the platform's manifest rules:
// required keys, known value sets, reference resolution, env var hygiene,
// and start command ordering.
package validate

import (
	"fmt"

	"github.com/deployctl/blueprint/internal/blueprint"
)

// Severity grades how seriously an issue should be taken.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON renders the severity as its label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Issue is one finding against a blueprint.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", i.Severity, i.Path, i.Message, i.Rule)
}

// Report collects all issues found in one blueprint.
type Report struct {
	Blueprint *blueprint.Blueprint
	Issues    []Issue
}

func (r *Report) add(severity Severity, rule, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Rule:     rule,
		Severity: severity,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) errorf(rule, path, format string, args ...any) {
	r.add(SeverityError, rule, path, format, args...)
}

func (r *Report) warnf(rule, path, format string, args ...any) {
	r.add(SeverityWarning, rule, path, format, args...)
}

func (r *Report) infof(rule, path, format string, args ...any) {
	r.add(SeverityInfo, rule, path, format, args...)
}

// Count returns the number of issues at the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-severity issue was found.
func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Check runs every rule against the blueprint and returns the report.
func Check(bp *blueprint.Blueprint) *Report {
	report := &Report{Blueprint: bp}

	checkUniqueNames(report, bp)
	for i := range bp.Services {
		checkService(report, bp, i)
	}
	for i := range bp.Databases {
		checkDatabase(report, bp, i)
	}
	for i := range bp.EnvVarGroups {
		checkEnvVarGroup(report, bp, i)
	}
	checkPreviews(report, bp)

	return report
}
