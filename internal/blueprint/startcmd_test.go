package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStartCommand_DjangoChain(t *testing.T) {
	steps := SplitStartCommand("python manage.py migrate && python manage.py collectstatic --noinput && uvicorn core.asgi:application --host 0.0.0.0 --port $PORT")
	require.Len(t, steps, 3)

	assert.Equal(t, StepMigrate, steps[0].Kind)
	assert.Equal(t, StepCollectStatic, steps[1].Kind)
	assert.Equal(t, StepServer, steps[2].Kind)
	assert.True(t, steps[2].BindsPort())
	assert.False(t, steps[0].BindsPort())
}

func TestSplitStartCommand_QuotedAmpersands(t *testing.T) {
	steps := SplitStartCommand(`sh -c 'echo "a && b"' && node server.js`)
	require.Len(t, steps, 2)
	assert.Equal(t, `sh -c 'echo "a && b"'`, steps[0].Command)
	assert.Equal(t, StepServer, steps[1].Kind)
}

func TestClassifyStep(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    StepKind
	}{
		{"django migrate", "python manage.py migrate", StepMigrate},
		{"alembic", "alembic upgrade head", StepMigrate},
		{"rails migrate", "bundle exec rails db:migrate", StepMigrate},
		{"prisma", "npx prisma migrate deploy", StepMigrate},
		{"collectstatic", "python manage.py collectstatic --noinput", StepCollectStatic},
		{"uvicorn", "uvicorn app.asgi:application --port $PORT", StepServer},
		{"gunicorn module", "python -m gunicorn app.wsgi", StepServer},
		{"gunicorn path", "/usr/local/bin/gunicorn app.wsgi", StepServer},
		{"npm start", "npm start", StepServer},
		{"yarn dev", "yarn run dev", StepServer},
		{"npm build", "npm run build", StepOther},
		{"pnpm install", "pnpm install --frozen-lockfile", StepOther},
		{"plain script", "python seed.py", StepOther},
		{"empty", "   ", StepOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := SplitStartCommand(tt.command)
			if tt.want == StepOther && len(steps) == 0 {
				return // blank commands produce no steps
			}
			require.NotEmpty(t, steps)
			assert.Equal(t, tt.want, steps[0].Kind)
		})
	}
}

func TestSplitStartCommand_BuildThenServe(t *testing.T) {
	steps := SplitStartCommand("npm run build && node server.js")
	require.Len(t, steps, 2)

	assert.Equal(t, StepOther, steps[0].Kind)
	assert.Equal(t, StepServer, steps[1].Kind)
}

func TestFirstStep(t *testing.T) {
	steps := SplitStartCommand("python manage.py migrate && uvicorn core.asgi:application --port $PORT")

	assert.Equal(t, 0, FirstStep(steps, StepMigrate))
	assert.Equal(t, 1, FirstStep(steps, StepServer))
	assert.Equal(t, -1, FirstStep(steps, StepCollectStatic))
}

func TestStepKindString(t *testing.T) {
	assert.Equal(t, "migrate", StepMigrate.String())
	assert.Equal(t, "collectstatic", StepCollectStatic.String())
	assert.Equal(t, "server", StepServer.String())
	assert.Equal(t, "other", StepOther.String())
}
