package cli

import (
	"testing"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/envscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffEnv(t *testing.T) {
	declared := map[string]bool{"SECRET_KEY": true, "DEBUG": true}
	found := map[string]envscan.Finding{
		"SECRET_KEY": {VarName: "SECRET_KEY"},
		"API_TOKEN":  {VarName: "API_TOKEN", Sensitive: true},
		"LOG_LEVEL":  {VarName: "LOG_LEVEL"},
		"PORT":       {VarName: "PORT"},
	}

	matched, missing := diffEnv(declared, found)

	assert.Equal(t, []string{"SECRET_KEY"}, matched)
	assert.Equal(t, []string{"API_TOKEN", "LOG_LEVEL"}, missing, "PORT is platform-injected and never missing")
}

func TestDeclaredKeys_ExpandsGroups(t *testing.T) {
	bp, err := blueprint.Parse([]byte(`
services:
  - type: web
    name: app
    runtime: python
    startCommand: uvicorn app:app --port $PORT
    envVars:
      - key: SECRET_KEY
        generateValue: true
      - fromGroup: shared
envVarGroups:
  - name: shared
    envVars:
      - key: LOG_LEVEL
        value: info
`))
	require.NoError(t, err)

	declared := declaredKeys(bp)
	assert.True(t, declared["SECRET_KEY"])
	assert.True(t, declared["LOG_LEVEL"], "group members count as declared")
	assert.False(t, declared["DEBUG"])
}
