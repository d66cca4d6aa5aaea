package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func writeGzFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write gzip content: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return path
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "audit.vlog", "ts:100 usr:alice\nts:110 usr:bob\n")

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Number != 1 || lines[1].Number != 2 {
		t.Errorf("expected 1-based line numbers, got %d, %d", lines[0].Number, lines[1].Number)
	}
	if lines[0].Format != "VLOG" {
		t.Errorf("expected format VLOG, got %s", lines[0].Format)
	}
	if lines[1].Text != "ts:110 usr:bob" {
		t.Errorf("unexpected line text: %q", lines[1].Text)
	}
}

func TestReadLines_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := writeGzFile(t, dir, "audit.log.gz", "ts:100 usr:alice\nts:110 usr:bob\nts:120 usr:carol\n")

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Format != "LOG" {
		t.Errorf("expected format LOG for .log.gz, got %s", lines[0].Format)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "ts:1\n")
	writeFile(t, dir, "b.txt", "ts:2\n")
	writeFile(t, dir, "c.vlog", "ts:3\n")
	writeFile(t, dir, "ignored.csv", "not a log\n")
	writeGzFile(t, dir, "d.log.gz", "ts:4\n")

	files, err := Discover([]string{dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 4 {
		t.Fatalf("expected 4 discovered files, got %d: %v", len(files), files)
	}
}

func TestDiscover_UnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b\n")

	if _, err := Discover([]string{path}); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"audit.log", "LOG"},
		{"notes.TXT", "TXT"},
		{"capture.vlog", "VLOG"},
		{"archive.log.gz", "LOG"},
	}

	for _, tt := range tests {
		if got := FormatLabel(tt.path); got != tt.want {
			t.Errorf("FormatLabel(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
