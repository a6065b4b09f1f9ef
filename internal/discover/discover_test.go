package discover

import (
	"context"
	"testing"

	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManifest = `
services:
  - type: web
    name: app
    startCommand: uvicorn app:app --port $PORT
`

func TestFindBlueprints(t *testing.T) {
	mfs := fsys.NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte(validManifest))
	mfs.AddFile("repo/api/render.yml", []byte(validManifest))
	mfs.AddFile("repo/node_modules/pkg/render.yaml", []byte(validManifest))
	mfs.AddFile("repo/README.md", []byte("docs"))

	finder := NewFinder(mfs)
	paths, err := finder.FindBlueprints(context.Background(), "repo")
	require.NoError(t, err)

	assert.Equal(t, []string{"repo/api/render.yml", "repo/render.yaml"}, paths)
}

func TestCheckAll(t *testing.T) {
	mfs := fsys.NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte(validManifest))
	mfs.AddFile("repo/broken/render.yaml", []byte("services: [\n"))

	finder := NewFinder(mfs)
	paths, err := finder.FindBlueprints(context.Background(), "repo")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	results := finder.CheckAll(context.Background(), paths)
	require.Len(t, results, 2)

	byPath := make(map[string]Result)
	for _, result := range results {
		byPath[result.Path] = result
	}

	broken := byPath["repo/broken/render.yaml"]
	assert.Error(t, broken.Err)
	assert.Nil(t, broken.Report)

	ok := byPath["repo/render.yaml"]
	require.NoError(t, ok.Err)
	require.NotNil(t, ok.Report)
	assert.False(t, ok.Report.HasErrors())
}
