package storage

import (
	"database/sql"
	"testing"
)

// openTestDB creates an in-memory SQLite database with the schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitDB_CreatesSlotTable verifies the slot table and its columns exist.
func TestInitDB_CreatesSlotTable(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query("SELECT name FROM pragma_table_info('slot') ORDER BY cid")
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	want := []string{"key", "value", "updated_at"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, cols[i], want[i])
		}
	}
}

// TestInitDB_Idempotent verifies InitDB can run against an existing schema.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec("INSERT INTO slot (key, value, updated_at) VALUES ('k', 'v', 'now')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM slot").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1 (InitDB must not drop data)", n)
	}
}
