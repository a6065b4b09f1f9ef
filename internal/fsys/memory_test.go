package fsys

import (
	"sort"
	"testing"
)

func TestMemoryFS_AddFile(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("test.txt", []byte("hello world"))

	result, err := mfs.ReadFile("test.txt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if string(result) != "hello world" {
		t.Fatalf("expected 'hello world', got '%s'", string(result))
	}
}

func TestMemoryFS_AddFile_CreatesParentDirs(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("dir1/dir2/test.txt", []byte("content"))

	content, err := mfs.ReadFile("dir1/dir2/test.txt")
	if err != nil {
		t.Fatalf("expected no error reading file in nested directory, got %v", err)
	}
	if string(content) != "content" {
		t.Errorf("expected 'content', got '%s'", string(content))
	}

	info, err := mfs.Stat("dir1/dir2")
	if err != nil {
		t.Fatalf("expected parent directory to exist, got %v", err)
	}
	if !info.IsDir() {
		t.Error("expected dir1/dir2 to be a directory")
	}
}

func TestMemoryFS_ReadFile_NotFound(t *testing.T) {
	mfs := NewMemoryFS()

	if _, err := mfs.ReadFile("nonexistent.txt"); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestMemoryFS_ReadDir(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("file1.txt", []byte("content1"))
	mfs.AddFile("file2.txt", []byte("content2"))
	mfs.AddDir("subdir")
	mfs.AddFile("subdir/file3.txt", []byte("content3"))

	entries := make([]string, 0)
	for entry, err := range mfs.ReadDir(".") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries = append(entries, entry.Name())
	}

	sort.Strings(entries)
	want := []string{"file1.txt", "file2.txt", "subdir"}
	if len(entries) != len(want) {
		t.Fatalf("expected %v, got %v", want, entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, entries)
		}
	}
}

func TestMemoryFS_Walk(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte("services: []"))
	mfs.AddFile("repo/api/.env", []byte("A=1"))

	var visited []string
	err := mfs.Walk("repo", func(path string, info FileInfo, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Strings(visited)
	want := []string{"repo", "repo/api", "repo/api/.env", "repo/render.yaml"}
	if len(visited) != len(want) {
		t.Fatalf("expected %v, got %v", want, visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, visited)
		}
	}
}

func TestMemoryFS_Walk_SkipDir(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/app.txt", []byte("keep"))
	mfs.AddFile("repo/node_modules/dep.txt", []byte("skip"))

	var visited []string
	err := mfs.Walk("repo", func(path string, info FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && info.Name() == "node_modules" {
			return SkipDir
		}
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, path := range visited {
		if path == "repo/node_modules/dep.txt" {
			t.Fatal("expected node_modules to be skipped")
		}
	}
}

func TestFindFile_CaseInsensitive(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/Render.YAML", []byte("services: []"))

	path, err := FindFile(mfs, "repo", "render.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "repo/Render.YAML" {
		t.Fatalf("expected original casing preserved, got %q", path)
	}
}

func TestMemoryFS_Rel(t *testing.T) {
	mfs := NewMemoryFS()

	rel, err := mfs.Rel("repo", "repo/api/render.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel != "api/render.yaml" {
		t.Fatalf("expected 'api/render.yaml', got %q", rel)
	}
}
