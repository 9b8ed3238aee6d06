package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := Default()
	if opts.TailCallOptimization {
		t.Fatal("expected tail-call optimization off by default")
	}
	if !opts.RecordDebugLines {
		t.Fatal("expected debug-line recording on by default")
	}
	if opts.CachePath == "" {
		t.Fatal("expected a non-empty default cache path")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != Default() {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsc.yaml")
	if err := os.WriteFile(path, []byte("tailCallOptimization: true\ncachePath: /tmp/custom.sqlite\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.TailCallOptimization {
		t.Fatal("expected tailCallOptimization overlaid to true")
	}
	if opts.CachePath != "/tmp/custom.sqlite" {
		t.Fatalf("got cache path %q", opts.CachePath)
	}
	if !opts.RecordDebugLines {
		t.Fatal("expected unspecified field to retain its default")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	opts, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != Default() {
		t.Fatalf("expected defaults for empty path, got %+v", opts)
	}
}
