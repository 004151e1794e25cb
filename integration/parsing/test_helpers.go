//go:build integration

package parsing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"x4map/internal/api"
	"x4map/internal/database"
	"x4map/internal/lookup"
	"x4map/internal/streaming"
)

const (
	assetsDir    = "testdata/assets"
	universeSave = "testdata/universe.xml"

	sectorA = "cluster_01_sector001_macro"
	sectorB = "cluster_02_sector001_macro"
)

// LoadTestTables reads the lookup tables shipped with the test data
func LoadTestTables(t *testing.T) *lookup.Tables {
	t.Helper()
	tables, err := lookup.Load(assetsDir)
	if err != nil {
		t.Fatalf("Failed to load lookup tables: %v", err)
	}
	return tables
}

// ParseTestSave runs the full pipeline over a save file and collects its status lines
func ParseTestSave(t *testing.T, path string) (api.SectorsMap, []string) {
	t.Helper()
	var statuses []string
	result, err := streaming.ParseFile(context.Background(), path, LoadTestTables(t), streaming.DefaultOptions(), func(ev streaming.Event) {
		statuses = append(statuses, ev.Status)
	})
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return result, statuses
}

// GzipTestSave writes a gzipped copy of a save into a temporary directory
func GzipTestSave(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("Failed to compress %s: %v", path, err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to compress %s: %v", path, err)
	}

	out := filepath.Join(t.TempDir(), filepath.Base(path)+".gz")
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", out, err)
	}
	return out
}

// CreateTestStore opens an in-memory database closed with the test
func CreateTestStore(t *testing.T) *database.SQLiteStore {
	t.Helper()
	store, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
