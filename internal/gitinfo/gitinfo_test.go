package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestBranchAndRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")

	if got := Branch(dir); got != "main" {
		t.Fatalf("Branch = %q, want %q", got, "main")
	}
	if got := Root(dir); got != dir {
		t.Fatalf("Root = %q, want %q", got, dir)
	}
}

func TestBranchFromNestedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/feature/scroll\n")
	sub := filepath.Join(dir, "internal", "editor")
	writeFile(t, filepath.Join(sub, "editor.go"), "package editor\n")

	if got := Branch(filepath.Join(sub, "editor.go")); got != "scroll" {
		t.Fatalf("Branch = %q, want %q", got, "scroll")
	}
	if got := Root(filepath.Join(sub, "editor.go")); got != dir {
		t.Fatalf("Root = %q, want %q", got, dir)
	}
}

func TestDetachedHead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "4f2e8c1a9b0d77e3a15c62f08d943be21a7c55e0\n")

	if got := Branch(dir); got != "detached:4f2e8c1" {
		t.Fatalf("Branch = %q, want %q", got, "detached:4f2e8c1")
	}
}

func TestGitFileRedirect(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "repo.git")
	writeFile(t, filepath.Join(real, "HEAD"), "ref: refs/heads/dev\n")
	work := filepath.Join(dir, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(work, ".git"), "gitdir: ../repo.git\n")

	if got := Branch(work); got != "dev" {
		t.Fatalf("Branch = %q, want %q", got, "dev")
	}
}

func TestNotARepo(t *testing.T) {
	dir := t.TempDir()
	if got := Branch(dir); got != "" {
		t.Fatalf("Branch = %q, want empty", got)
	}
	if got := Root(dir); got != "" {
		t.Fatalf("Root = %q, want empty", got)
	}
}
