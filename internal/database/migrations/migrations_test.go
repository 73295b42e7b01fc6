package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_CreatesTables(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	for _, table := range []string{"catalog_meta", "topics", "lessons", "parts", "visits", "clicks", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestMigrateUp_SeedsVisitRow(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	var total, unique int64
	if err := db.QueryRow("SELECT total, unique_visitors FROM visits WHERE id = 1").Scan(&total, &unique); err != nil {
		t.Fatalf("reading visits row: %v", err)
	}
	if total != 0 || unique != 0 {
		t.Errorf("visits = (%d, %d), want (0, 0)", total, unique)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() error = %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("second MigrateUp() error = %v", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() error = %v", err)
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckDBMigrationStatus() expected error for fresh database")
	}
	if err.Error() != "database has no schema version (needs migration)" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v != 1 {
		t.Errorf("LatestVersion() = %d, want 1", v)
	}
}

func TestForeignKeys_CascadeFromTopic(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	stmts := []string{
		`INSERT INTO topics (id, position, title, is_enabled, sort_order) VALUES ('t1', 0, 'T', 1, 1)`,
		`INSERT INTO lessons (topic_id, id, position, title, is_enabled, sort_order) VALUES ('t1', 'l1', 0, 'L', 1, 1)`,
		`INSERT INTO parts (topic_id, lesson_id, id, position, title, is_enabled, sort_order) VALUES ('t1', 'l1', 'p1', 0, 'P', 1, 1)`,
		`DELETE FROM topics WHERE id = 't1'`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}

	var n int
	if err := db.QueryRow("SELECT count(*) FROM parts").Scan(&n); err != nil {
		t.Fatalf("count parts: %v", err)
	}
	if n != 0 {
		t.Errorf("parts left after topic delete = %d, want 0", n)
	}
}

func TestForeignKeys_RejectOrphanLesson(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	_, err := db.Exec(`INSERT INTO lessons (topic_id, id, position, title, is_enabled, sort_order) VALUES ('missing', 'l1', 0, 'L', 1, 1)`)
	if err == nil {
		t.Error("expected foreign key violation")
	}
}

// openTestDB opens a single-connection in-memory database with foreign keys on.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}
