package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"pooltemps/internal/config"
	"pooltemps/internal/readings"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:             "dev",
		LogLevel:           slog.LevelInfo,
		HTTPAddr:           "127.0.0.1:0",
		SQLiteDriver:       "sqlite3",
		SQLitePath:         filepath.Join(t.TempDir(), "pool_temperatures.db"),
		SQLiteMaxOpenConns: 1,
		SQLiteMaxIdleConns: 1,
		Timezone:           "America/Denver",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_submitAndQuery(t *testing.T) {
	ctx := context.Background()
	comps, err := Open(ctx, testConfig(t), discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = comps.Close() })

	res, err := comps.Monitor.Submit(ctx, map[string]string{"Well": "101.2"}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Saved("Well") {
		t.Fatalf("Well not saved: %+v", res)
	}
	points, err := comps.Store.Query(ctx, "Well", readings.ScopeAll)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(points) != 1 || points[0].Temperature != 101.2 {
		t.Errorf("points = %+v", points)
	}
	if comps.Pools.Location().String() != "America/Denver" {
		t.Errorf("location = %v", comps.Pools.Location())
	}
}

func TestOpen_reopenKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := Open(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Store.Append(ctx, "Big Pool", 93); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Open(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	points, err := second.Store.Query(ctx, "Big Pool", readings.ScopeAll)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("points after reopen = %d; want 1", len(points))
	}
}

func TestOpen_invalidPoolsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.PoolsFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Open(context.Background(), cfg, discardLogger()); err == nil {
		t.Fatal("Open with missing pools file = nil; want error")
	}
}

func TestServe_shutdownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, discardLogger()) }()

	url := fmt.Sprintf("http://%s/", ln.Addr())
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("serve() = %v; want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
