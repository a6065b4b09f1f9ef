package generate

import (
	"context"
	"testing"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func djangoTree() *fsys.MemoryFS {
	mfs := fsys.NewMemoryFS()
	mfs.AddFile("tradebot/manage.py", []byte("#!/usr/bin/env python\n"))
	mfs.AddFile("tradebot/requirements.txt", []byte("django\nuvicorn\n"))
	mfs.AddFile("tradebot/core/asgi.py", []byte("application = get_asgi_application()\n"))
	mfs.AddFile("tradebot/.env", []byte("OPENAI_API_KEY=sk-abc\nCOINGECKO_API_KEY=cg-xyz\nSENTRY_DSN=https://abc@sentry.io/1\n"))
	return mfs
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Framework
	}{
		{"django", map[string]string{"app/manage.py": ""}, FrameworkDjango},
		{"node", map[string]string{"app/package.json": "{}"}, FrameworkNode},
		{"go", map[string]string{"app/go.mod": "module app"}, FrameworkGo},
		{"docker", map[string]string{"app/Dockerfile": "FROM alpine"}, FrameworkDocker},
		{"unknown", map[string]string{"app/README.md": "hi"}, FrameworkUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := fsys.NewMemoryFS()
			for path, content := range tt.files {
				mfs.AddFile(path, []byte(content))
			}

			framework, err := NewGenerator(mfs).Detect("app")
			require.NoError(t, err)
			assert.Equal(t, tt.want, framework)
		})
	}
}

func TestGenerate_Django(t *testing.T) {
	generator := NewGenerator(djangoTree())

	bp, err := generator.Generate(context.Background(), "tradebot", "")
	require.NoError(t, err)

	require.Len(t, bp.Services, 1)
	svc := bp.Services[0]
	assert.Equal(t, "web", svc.Type)
	assert.Equal(t, "tradebot", svc.Name)
	assert.Equal(t, "python", svc.RuntimeName())
	assert.Equal(t, "pip install -r requirements.txt", svc.BuildCommand)
	require.NotNil(t, svc.AutoDeploy)
	assert.True(t, *svc.AutoDeploy)

	// migrate, collect static assets, then hand off to the ASGI server
	steps := blueprint.SplitStartCommand(svc.StartCommand)
	require.Len(t, steps, 3)
	assert.Equal(t, blueprint.StepMigrate, steps[0].Kind)
	assert.Equal(t, blueprint.StepCollectStatic, steps[1].Kind)
	assert.Equal(t, blueprint.StepServer, steps[2].Kind)
	assert.Contains(t, steps[2].Command, "core.asgi:application")
	assert.True(t, steps[2].BindsPort())

	byKey := make(map[string]blueprint.EnvVar)
	for _, ev := range svc.EnvVars {
		byKey[ev.Key] = ev
	}

	assert.True(t, byKey["SECRET_KEY"].GenerateValue)
	assert.Equal(t, "false", byKey["DEBUG"].Value)

	dbRef := byKey["DATABASE_URL"].FromDatabase
	require.NotNil(t, dbRef)
	assert.Equal(t, "tradebot-db", dbRef.Name)
	assert.Equal(t, "connectionString", dbRef.Property)

	// secrets found in the tree come through as dashboard-supplied
	require.NotNil(t, byKey["OPENAI_API_KEY"].Sync)
	assert.False(t, *byKey["OPENAI_API_KEY"].Sync)
	assert.Empty(t, byKey["OPENAI_API_KEY"].Value)
	require.NotNil(t, byKey["COINGECKO_API_KEY"].Sync)
	assert.False(t, *byKey["COINGECKO_API_KEY"].Sync)

	require.Len(t, bp.Databases, 1)
	db := bp.Databases[0]
	assert.Equal(t, "tradebot-db", db.Name)
	assert.Equal(t, "free", db.Plan)
	require.NotNil(t, db.IPAllowList)
	assert.Empty(t, db.IPAllowList)
}

func TestGenerate_DjangoBlueprintValidates(t *testing.T) {
	generator := NewGenerator(djangoTree())

	bp, err := generator.Generate(context.Background(), "tradebot", "")
	require.NoError(t, err)

	report := validate.Check(bp)
	assert.False(t, report.HasErrors(), "generated blueprint has errors: %v", report.Issues)
}

func TestGenerate_Node(t *testing.T) {
	mfs := fsys.NewMemoryFS()
	mfs.AddFile("shop/package.json", []byte(`{"name":"shop"}`))

	bp, err := NewGenerator(mfs).Generate(context.Background(), "shop", "storefront")
	require.NoError(t, err)

	require.Len(t, bp.Services, 1)
	svc := bp.Services[0]
	assert.Equal(t, "storefront", svc.Name)
	assert.Equal(t, "node", svc.RuntimeName())
	assert.Equal(t, "npm start", svc.StartCommand)
	assert.Empty(t, bp.Databases)
}

func TestGenerate_Unknown(t *testing.T) {
	mfs := fsys.NewMemoryFS()
	mfs.AddFile("docs/README.md", []byte("hello"))

	_, err := NewGenerator(mfs).Generate(context.Background(), "docs", "")
	require.Error(t, err)
}
