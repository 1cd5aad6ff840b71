package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_claims.sql", "CREATE TABLE claims ();")
	writeMigration(t, dir, "001_payors.sql", "CREATE TABLE payors ();")
	writeMigration(t, dir, "010_audit.sql", "CREATE TABLE claim_audit_log ();")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("got %d migrations, want 3", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, w := range wantVersions {
		if migrations[i].Version != w {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, w)
		}
	}
}

func TestLoadMigrationsSkipsNonNumeric(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_payors.sql", "CREATE TABLE payors ();")
	writeMigration(t, dir, "notes.sql", "-- not a migration")
	writeMigration(t, dir, "README.md", "docs")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("got %d migrations, want 1", len(migrations))
	}
	if migrations[0].Name != "001_payors.sql" {
		t.Errorf("unexpected migration %q", migrations[0].Name)
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing migrations directory")
	}
}
