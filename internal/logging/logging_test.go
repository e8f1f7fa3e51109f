package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesFile(t *testing.T) {
	dir := t.TempDir()
	closer, err := Setup(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	log.Printf("слушатель установлен")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "слушатель установлен") {
		t.Errorf("expected message in log file, got %q", string(data))
	}
}

func TestSetup_MissingDirFallsBack(t *testing.T) {
	closer, err := Setup(filepath.Join(t.TempDir(), "missing", "dir"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
	if closer == nil {
		t.Fatal("closer must never be nil")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
