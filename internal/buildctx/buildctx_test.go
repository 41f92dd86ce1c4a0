package buildctx

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func listEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	tr := tar.NewReader(gz)
	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar next: %v", err)
		}
		var body bytes.Buffer
		if _, err := io.Copy(&body, tr); err != nil {
			t.Fatalf("tar read: %v", err)
		}
		entries[hdr.Name] = body.String()
	}
	return entries
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM python:3.12-slim\n")
	writeFile(t, filepath.Join(dir, "app.py"), "print('hi')\n")
	writeFile(t, filepath.Join(dir, "static", "style.css"), "body{}\n")
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(dir, ".venv", "pyvenv.cfg"), "home = /usr\n")

	var buf bytes.Buffer
	if err := Archive(dir, &buf); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	entries := listEntries(t, buf.Bytes())

	if entries["Dockerfile"] != "FROM python:3.12-slim\n" {
		t.Errorf("Dockerfile content = %q", entries["Dockerfile"])
	}
	if _, ok := entries["app.py"]; !ok {
		t.Error("app.py missing from archive")
	}
	if _, ok := entries["static/style.css"]; !ok {
		t.Error("nested file missing from archive")
	}
	for name := range entries {
		if name == ".git/HEAD" || name == ".venv/pyvenv.cfg" {
			t.Errorf("excluded entry %q found in archive", name)
		}
	}
}

func TestArchiveErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Archive(filepath.Join(t.TempDir(), "missing"), &buf); err == nil {
		t.Error("expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "plain")
	writeFile(t, file, "x")
	if err := Archive(file, &buf); err == nil {
		t.Error("expected error when context is a plain file")
	}
}

func TestArchiveToTemp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM scratch\n")

	path, err := ArchiveToTemp(dir)
	if err != nil {
		t.Fatalf("ArchiveToTemp() error = %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := listEntries(t, data)
	if _, ok := entries["Dockerfile"]; !ok {
		t.Error("Dockerfile missing from temp archive")
	}
}

func TestContainsDockerfile(t *testing.T) {
	dir := t.TempDir()
	if ContainsDockerfile(dir) {
		t.Error("empty dir should not contain a Dockerfile")
	}
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM scratch\n")
	if !ContainsDockerfile(dir) {
		t.Error("Dockerfile should be detected")
	}
}
