package hashing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDedupIndexMarkAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_files.txt")

	idx, err := OpenDedupIndex(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}

	fp := Hash([]byte("doc one"))
	if idx.Contains(fp) {
		t.Fatal("fresh index should not contain fingerprint")
	}
	if err := idx.Mark(fp); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !idx.Contains(fp) {
		t.Fatal("expected fingerprint after mark")
	}
}

func TestDedupIndexSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_files.txt")

	idx, err := OpenDedupIndex(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	fp := Hash([]byte("doc two"))
	if err := idx.Mark(fp); err != nil {
		t.Fatalf("mark: %v", err)
	}

	// Simulated restart: reload from the persisted log.
	reloaded, err := OpenDedupIndex(path)
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	if !reloaded.Contains(fp) {
		t.Fatal("fingerprint lost across restart")
	}
	if reloaded.Contains(Hash([]byte("never marked"))) {
		t.Fatal("unexpected fingerprint after reload")
	}
}

func TestDedupIndexMarkIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_files.txt")

	idx, err := OpenDedupIndex(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	fp := Hash([]byte("doc three"))
	for i := 0; i < 3; i++ {
		if err := idx.Mark(fp); err != nil {
			t.Fatalf("mark %d: %v", i, err)
		}
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 distinct fingerprint, got %d", idx.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := len(data); got != 65 { // 64 hex chars + newline
		t.Fatalf("expected a single log line, got %d bytes", got)
	}
}

func TestDedupIndexToleratesDuplicateLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_files.txt")
	fp := Hash([]byte("doc four"))

	line := string(fp) + "\n"
	if err := os.WriteFile(path, []byte(line+line+line), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	idx, err := OpenDedupIndex(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	if !idx.Contains(fp) {
		t.Fatal("expected fingerprint from seeded log")
	}
	if idx.Len() != 1 {
		t.Fatalf("duplicate lines should collapse, got %d", idx.Len())
	}
}
