package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunValidate_CleanTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "render.yaml", `
services:
  - type: web
    name: app
    runtime: python
    startCommand: uvicorn app:app --host 0.0.0.0 --port $PORT
`)

	failed, err := runValidate(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, failed)
}

func TestRunValidate_BrokenBlueprint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "render.yaml", `
services:
  - type: web
    name: app
`)

	failed, err := runValidate(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, failed, "missing startCommand should fail validation")
}

func TestRunValidate_SingleFileArgument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deploy/render.yaml", `
services:
  - type: worker
    name: jobs
    runtime: python
    startCommand: python worker.py
`)

	failed, err := runValidate(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, failed)
}

func TestRunValidate_MissingPath(t *testing.T) {
	_, err := runValidate(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestRunValidate_NoBlueprints(t *testing.T) {
	failed, err := runValidate(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, failed)
}
