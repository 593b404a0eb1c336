package db

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sqlx.Open() error = %v, want nil", err)
	}
	// A pooled :memory: database is one database per connection.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestMigrateUp(t *testing.T) {
	conn := openTestDB(t)

	if err := MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp() error = %v, want nil", err)
	}

	// The catalog tables exist after migrating.
	var count int
	if err := conn.Get(&count,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('products', 'product_attributes')"); err != nil {
		t.Fatalf("table lookup error = %v, want nil", err)
	}
	if count != 2 {
		t.Errorf("catalog tables = %d, want 2", count)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := MigrateUp(conn); err != nil {
		t.Fatalf("first MigrateUp() error = %v, want nil", err)
	}
	if err := MigrateUp(conn); err != nil {
		t.Fatalf("second MigrateUp() error = %v, want nil", err)
	}

	var count int
	if err := conn.Get(&count, "SELECT COUNT(*) FROM migrations"); err != nil {
		t.Fatalf("migrations lookup error = %v, want nil", err)
	}
	if count != 1 {
		t.Errorf("recorded migrations = %d, want 1 (re-run must not re-apply)", count)
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "two statements",
			sql:  "CREATE TABLE a (x INTEGER);\nCREATE TABLE b (y INTEGER);",
			want: []string{"CREATE TABLE a (x INTEGER)", "CREATE TABLE b (y INTEGER)"},
		},
		{
			name: "semicolon inside a comment does not end a statement",
			sql:  "-- values are TEXT; coerced later\nCREATE TABLE a (x TEXT);",
			want: []string{"CREATE TABLE a (x TEXT)"},
		},
		{
			name: "comment block between statements",
			sql:  "CREATE TABLE a (x TEXT);\n-- next; table\n-- more notes\nCREATE TABLE b (y TEXT);",
			want: []string{"CREATE TABLE a (x TEXT)", "CREATE TABLE b (y TEXT)"},
		},
		{
			name: "comments and whitespace only",
			sql:  "-- nothing here; really\n\n   \n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitStatements(tt.sql)
			if len(got) != len(tt.want) {
				t.Fatalf("splitStatements() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("splitStatements()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMigrateStatus(t *testing.T) {
	conn := openTestDB(t)

	statuses, err := MigrateStatus(conn)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v, want nil", err)
	}
	if len(statuses) == 0 {
		t.Fatalf("MigrateStatus() = empty, want pending migrations listed")
	}
	for _, s := range statuses {
		if s.Applied {
			t.Errorf("migration %s applied before MigrateUp", s.ID)
		}
		if s.Checksum == "" {
			t.Errorf("migration %s has empty checksum", s.ID)
		}
	}

	if err := MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp() error = %v, want nil", err)
	}

	statuses, err = MigrateStatus(conn)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v, want nil", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			t.Errorf("migration %s still pending after MigrateUp", s.ID)
		}
	}
}

func TestMigrateUp_ChecksumTamperDetected(t *testing.T) {
	conn := openTestDB(t)

	if err := MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp() error = %v, want nil", err)
	}

	// Simulate an edited migration file by corrupting the recorded checksum.
	if _, err := conn.Exec("UPDATE migrations SET checksum = 'tampered'"); err != nil {
		t.Fatalf("checksum update error = %v, want nil", err)
	}

	if err := MigrateUp(conn); err == nil {
		t.Errorf("MigrateUp() error = nil, want checksum mismatch error")
	}
}

func TestLoadQueries(t *testing.T) {
	conn := openTestDB(t)

	queries, err := LoadQueries(conn)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v, want nil", err)
	}
	if queries.DB() != conn {
		t.Errorf("DB() does not return the bound connection")
	}
}

func TestOpen_URLParsing(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"unsupported scheme", "mysql://localhost/db", true},
		{"garbage", "::not-a-url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("Open(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
