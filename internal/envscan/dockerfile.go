package envscan

import (
	"context"
	"fmt"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

type DockerfileExtractor struct{}

func NewDockerfileExtractor() *DockerfileExtractor {
	return &DockerfileExtractor{}
}

func (d *DockerfileExtractor) CanHandle(filename string) bool {
	return strings.Contains(strings.ToLower(filename), "dockerfile")
}

func (d *DockerfileExtractor) Extract(ctx context.Context, filename string, content []byte) ([]Finding, error) {
	ast, err := parser.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, child := range ast.AST.Children {
		if strings.ToUpper(child.Value) == "ENV" {
			findings = append(findings, d.parseEnvNode(child, filename)...)
		}
	}

	return findings, nil
}

const dockerfileConfidence = 60

func (d *DockerfileExtractor) parseEnvNode(node *parser.Node, dockerfilePath string) []Finding {
	if node.Next == nil {
		return nil
	}

	var args []string
	for n := node.Next; n != nil; n = n.Next {
		args = append(args, n.Value)
	}

	if len(args) == 0 {
		return nil
	}

	var findings []Finding

	if strings.Contains(args[0], "=") {
		// ENV key=value [key=value...]
		for _, arg := range args {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				continue
			}
			if finding, ok := d.newFinding(parts[0], parts[1], dockerfilePath); ok {
				findings = append(findings, finding)
			}
		}
	} else if len(args) >= 2 {
		// Legacy ENV key value
		if finding, ok := d.newFinding(args[0], strings.Join(args[1:], " "), dockerfilePath); ok {
			findings = append(findings, finding)
		}
	}

	return findings
}

func (d *DockerfileExtractor) newFinding(name, value, dockerfilePath string) (Finding, bool) {
	if ShouldIgnore(name) {
		return Finding{}, false
	}

	envType, sensitive := Classify(name, value)
	return Finding{
		VarName:    name,
		Value:      value,
		Type:       envType,
		Sensitive:  sensitive,
		Source:     fmt.Sprintf("dockerfile:%s", dockerfilePath),
		Confidence: dockerfileConfidence,
	}, true
}
