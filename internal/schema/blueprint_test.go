package schema

import (
	"testing"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBlueprint(t *testing.T) {
	bp, err := blueprint.Parse([]byte(`
services:
  - type: web
    name: app
    runtime: python
    startCommand: uvicorn core.asgi:application --port $PORT
    envVars:
      - key: SECRET_KEY
        generateValue: true
      - key: DEBUG
        value: "false"
      - key: DATABASE_URL
        fromDatabase:
          name: app-db
          property: connectionString
      - key: API_KEY
        sync: false
  - type: cron
    name: nightly
    schedule: "0 3 * * *"
    startCommand: python report.py
databases:
  - name: app-db
    plan: free
    ipAllowList: []
`))
	require.NoError(t, err)

	project := FromBlueprint("demo", bp)
	assert.Equal(t, "demo", project.Name)
	require.Len(t, project.Services, 2)

	web := project.Services[0]
	assert.Equal(t, NetworkPublic, web.Network)
	assert.Equal(t, RuntimeContinuous, web.Runtime)
	assert.Equal(t, BuildFromSource, web.Build)
	assert.Equal(t, []string{"app-db"}, web.Dependencies)

	assert.Equal(t, "generated", web.Environment["SECRET_KEY"].Source)
	assert.True(t, web.Environment["SECRET_KEY"].Sensitive)
	assert.Equal(t, "literal", web.Environment["DEBUG"].Source)
	assert.Equal(t, "false", web.Environment["DEBUG"].Value)
	assert.Equal(t, "database", web.Environment["DATABASE_URL"].Source)
	assert.Equal(t, "external", web.Environment["API_KEY"].Source)
	assert.True(t, web.Environment["API_KEY"].Sensitive)

	cron := project.Services[1]
	assert.Equal(t, RuntimeScheduled, cron.Runtime)
	assert.Equal(t, NetworkNone, cron.Network)

	require.Len(t, project.Databases, 1)
	db := project.Databases[0]
	assert.Equal(t, "postgres", db.Engine)
	assert.True(t, db.InternalOnly)
}

func TestFromBlueprint_ImageService(t *testing.T) {
	bp, err := blueprint.Parse([]byte(`
services:
  - type: pserv
    name: cache
    runtime: image
    image:
      url: docker.io/library/redis:7
`))
	require.NoError(t, err)

	project := FromBlueprint("demo", bp)
	require.Len(t, project.Services, 1)

	cache := project.Services[0]
	assert.Equal(t, BuildFromImage, cache.Build)
	assert.Equal(t, NetworkPrivate, cache.Network)
	assert.Equal(t, "docker.io/library/redis:7", cache.Image)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "public", NetworkPublic.String())
	assert.Equal(t, "private", NetworkPrivate.String())
	assert.Equal(t, "none", NetworkNone.String())
	assert.Equal(t, "scheduled", RuntimeScheduled.String())
	assert.Equal(t, "continuous", RuntimeContinuous.String())
	assert.Equal(t, "image", BuildFromImage.String())
	assert.Equal(t, "source", BuildFromSource.String())
}
