package db

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pooltemps/internal/config"
)

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  config.Config{SQLiteDSN: "file::memory:?cache=shared", SQLitePath: "ignored.db"},
			want: "file::memory:?cache=shared",
		},
		{
			name: "plain path",
			cfg:  config.Config{SQLitePath: "pools.db"},
			want: "file:pools.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "file uri with params",
			cfg:  config.Config{SQLitePath: "file:pools.db?mode=rwc"},
			want: "file:pools.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "nested path",
			cfg:  config.Config{SQLitePath: filepath.Join(dir, "data", "pools.db")},
			want: "file:" + filepath.Join(dir, "data", "pools.db") + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if err != nil {
				t.Fatalf("buildDSN() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("buildDSN() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "data")); err != nil {
		t.Errorf("buildDSN did not create parent directory: %v", err)
	}
}

func TestOpen(t *testing.T) {
	for _, logSQL := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "pools.db")
		cfg := config.Config{
			SQLiteDriver:        "sqlite3",
			SQLitePath:          path,
			SQLiteMaxOpenConns:  1,
			SQLiteMaxIdleConns:  1,
			SQLiteLogStatements: logSQL,
		}
		conn, err := Open(cfg, slog.Default())
		if err != nil {
			t.Fatalf("Open(logSQL=%v) error = %v", logSQL, err)
		}
		var one int
		if err := conn.QueryRow(`SELECT 1`).Scan(&one); err != nil || one != 1 {
			t.Errorf("SELECT 1 = %d, %v", one, err)
		}
		if err := Close(conn); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}
}

func TestOpen_unknownDriver(t *testing.T) {
	_, err := Open(config.Config{SQLiteDriver: "nope", SQLitePath: filepath.Join(t.TempDir(), "x.db")}, nil)
	if err == nil || !strings.Contains(err.Error(), "db open") {
		t.Fatalf("Open() error = %v, want db open failure", err)
	}
}

func TestClose_nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close(nil) = %v, want nil", err)
	}
}
