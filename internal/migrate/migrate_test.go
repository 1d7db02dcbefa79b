package migrate

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return db
}

func TestRun_createsTemperaturesTable(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := Run(ctx, db)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Errorf("Run applied %d migrations, want 1", n)
	}

	if _, err := db.Exec(`INSERT INTO temperatures (pool_name, temperature) VALUES ('Well', 101.5)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var ts string
	if err := db.QueryRow(`SELECT timestamp FROM temperatures`).Scan(&ts); err != nil {
		t.Fatalf("select timestamp: %v", err)
	}
	if !strings.HasSuffix(ts, "Z") || !strings.Contains(ts, "T") {
		t.Errorf("default timestamp = %q, want UTC RFC3339 text", ts)
	}
}

func TestRun_idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := Run(ctx, db); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	n, err := Run(ctx, db)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if n != 0 {
		t.Errorf("second Run applied %d migrations, want 0", n)
	}

	var versions int
	if err := db.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&versions); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if versions != 1 {
		t.Errorf("schema_migrations rows = %d, want 1", versions)
	}
}

func TestRun_ordersAndSkipsUnrelatedFiles(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte(`ALTER TABLE one ADD COLUMN note TEXT;`)},
		"m/0001_first.sql":  {Data: []byte(`CREATE TABLE one (id INTEGER);`)},
		"m/README.md":       {Data: []byte(`not a migration`)},
	}

	n, err := run(context.Background(), db, fsys, "m")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 2 {
		t.Errorf("applied %d, want 2", n)
	}
	if _, err := db.Exec(`INSERT INTO one (id, note) VALUES (1, 'x')`); err != nil {
		t.Errorf("insert after migrations: %v", err)
	}
}

func TestRun_failedMigrationNotRecorded(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"m/0001_broken.sql": {Data: []byte(`CREATE TABLE (;`)},
	}

	_, err := run(context.Background(), db, fsys, "m")
	if err == nil {
		t.Fatal("run: expected error for broken migration")
	}
	if !strings.Contains(err.Error(), "0001_broken.sql") {
		t.Errorf("error = %q, want file name", err.Error())
	}
	var versions int
	if err := db.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&versions); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if versions != 0 {
		t.Errorf("schema_migrations rows = %d, want 0", versions)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		in          string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{in: "0001_temperatures.sql", wantVersion: "0001", wantName: "temperatures", wantOK: true},
		{in: "12_short.sql", wantOK: false},
		{in: "0003_name.txt", wantOK: false},
	}
	for _, tt := range tests {
		v, n, ok := parseMigrationFilename(tt.in)
		if v != tt.wantVersion || n != tt.wantName || ok != tt.wantOK {
			t.Errorf("parseMigrationFilename(%q) = %q, %q, %v", tt.in, v, n, ok)
		}
	}
}
