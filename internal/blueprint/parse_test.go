package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webAppBlueprint = `
services:
  - type: web
    name: tradebot
    env: python
    plan: free
    buildCommand: pip install -r requirements.txt
    startCommand: python manage.py migrate && python manage.py collectstatic --noinput && uvicorn core.asgi:application --host 0.0.0.0 --port $PORT
    autoDeploy: true
    envVars:
      - key: OPENAI_API_KEY
        sync: false
      - key: COINGECKO_API_KEY
        sync: false
      - key: SECRET_KEY
        generateValue: true
      - key: DEBUG
        value: "false"
      - key: DATABASE_URL
        fromDatabase:
          name: tradebot-db
          property: connectionString
      - key: ALLOWED_HOSTS
        value: "*"

databases:
  - name: tradebot-db
    plan: free
    ipAllowList: []
`

func TestParse_WebAppBlueprint(t *testing.T) {
	bp, err := Parse([]byte(webAppBlueprint))
	require.NoError(t, err)

	require.Len(t, bp.Services, 1)
	svc := bp.Services[0]
	assert.Equal(t, "web", svc.Type)
	assert.Equal(t, "tradebot", svc.Name)
	assert.Equal(t, "python", svc.RuntimeName())
	assert.Equal(t, "pip install -r requirements.txt", svc.BuildCommand)
	require.NotNil(t, svc.AutoDeploy)
	assert.True(t, *svc.AutoDeploy)
	assert.Len(t, svc.EnvVars, 6)

	// sync: false leaves the value to the dashboard
	require.NotNil(t, svc.EnvVars[0].Sync)
	assert.False(t, *svc.EnvVars[0].Sync)
	assert.True(t, svc.EnvVars[2].GenerateValue)

	dbRef := svc.EnvVars[4].FromDatabase
	require.NotNil(t, dbRef)
	assert.Equal(t, "tradebot-db", dbRef.Name)
	assert.Equal(t, "connectionString", dbRef.Property)

	require.Len(t, bp.Databases, 1)
	db := bp.Databases[0]
	assert.Equal(t, "tradebot-db", db.Name)
	assert.Equal(t, "free", db.Plan)
	require.NotNil(t, db.IPAllowList)
	assert.Empty(t, db.IPAllowList)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(`
services:
  - type: web
    name: app
    startComand: npm start
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startComand")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyBlueprint)

	_, err = Parse([]byte("previews:\n  generation: automatic\n"))
	assert.ErrorIs(t, err, ErrEmptyBlueprint)
}

func TestMarshal_RoundTrip(t *testing.T) {
	bp, err := Parse([]byte(webAppBlueprint))
	require.NoError(t, err)

	data, err := Marshal(bp)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, bp.Services, again.Services)
	assert.Equal(t, bp.Databases, again.Databases)
}

func TestMarshal_AllowListRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		allowList []AllowedCIDR
		wantKey   bool
	}{
		{"absent stays absent", nil, false},
		{"empty stays empty", []AllowedCIDR{}, true},
		{"entries survive", []AllowedCIDR{{Source: "203.0.113.0/24", Description: "office"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := &Blueprint{
				Services:  []Service{{Type: "worker", Name: "jobs", StartCommand: "python worker.py"}},
				Databases: []Database{{Name: "jobs-db", IPAllowList: tt.allowList}},
			}

			data, err := Marshal(bp)
			require.NoError(t, err)

			if tt.wantKey {
				assert.Contains(t, string(data), "ipAllowList")
			} else {
				assert.NotContains(t, string(data), "ipAllowList")
			}

			again, err := Parse(data)
			require.NoError(t, err)
			require.Len(t, again.Databases, 1)
			assert.Equal(t, tt.allowList, again.Databases[0].IPAllowList)
		})
	}
}

func TestLookups(t *testing.T) {
	bp, err := Parse([]byte(webAppBlueprint))
	require.NoError(t, err)

	svc, ok := bp.ServiceByName("tradebot")
	require.True(t, ok)
	assert.Equal(t, "web", svc.Type)

	_, ok = bp.ServiceByName("missing")
	assert.False(t, ok)

	db, ok := bp.DatabaseByName("tradebot-db")
	require.True(t, ok)
	assert.Equal(t, "free", db.Plan)

	_, ok = bp.GroupByName("shared")
	assert.False(t, ok)
}
