package persistence

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if len(files) != 2 || files[0] != "001_a.sql" || files[1] != "002_b.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestMigrationFilesMissingDir(t *testing.T) {
	if _, err := migrationFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRepoMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected at least one migration")
	}
}
