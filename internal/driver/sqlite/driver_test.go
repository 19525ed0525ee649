package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johndauphine/db-volumetry/internal/driver"
)

func TestBuildDSNRequiresExistingFile(t *testing.T) {
	d := &Driver{}
	dir := t.TempDir()

	if _, err := d.BuildDSN(driver.ConnParams{}); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := d.BuildDSN(driver.ConnParams{Database: filepath.Join(dir, "missing.db")}); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := d.BuildDSN(driver.ConnParams{Database: dir}); err == nil {
		t.Error("expected error for directory")
	}

	path := filepath.Join(dir, "app.db")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	dsn, err := d.BuildDSN(driver.ConnParams{Host: "ignored", Database: path})
	if err != nil {
		t.Fatalf("BuildDSN() error: %v", err)
	}
	if !strings.HasPrefix(dsn, "file:") || !strings.HasSuffix(dsn, "?mode=ro") {
		t.Errorf("unexpected DSN %q", dsn)
	}
}

func TestBuildDSNEscapesURICharacters(t *testing.T) {
	d := &Driver{}
	dir := t.TempDir()
	path := filepath.Join(dir, "a%b?c#d.db")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	dsn, err := d.BuildDSN(driver.ConnParams{Database: path})
	if err != nil {
		t.Fatalf("BuildDSN() error: %v", err)
	}
	want := "file:" + filepath.Join(dir, "a%25b%3fc%23d.db") + "?mode=ro"
	if dsn != want {
		t.Errorf("BuildDSN() = %q, want %q", dsn, want)
	}
}

// TestDialectAgainstRealDatabase runs both size queries through modernc.org/sqlite.
func TestDialectAgainstRealDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizes.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE events (id INTEGER PRIMARY KEY, payload TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	payload := strings.Repeat("x", 1000)
	for i := 0; i < 200; i++ {
		if _, err := db.Exec(`INSERT INTO events (payload) VALUES (?)`, payload); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	d := &Dialect{}
	q, args := d.TableSizesQuery("")
	rows, err := db.Query(q, args...)
	if err != nil {
		if strings.Contains(err.Error(), "dbstat") {
			t.Skipf("dbstat not compiled in: %v", err)
		}
		t.Fatalf("table sizes: %v", err)
	}
	found := false
	for rows.Next() {
		var name string
		var size float64
		if err := rows.Scan(&name, &size); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if name == "events" {
			found = true
			if size <= 0 {
				t.Errorf("events size = %v, want > 0", size)
			}
		}
	}
	rows.Close()
	if !found {
		t.Error("events table missing from dbstat output")
	}

	q, args = d.TotalSizeQuery("")
	var total sql.NullFloat64
	if err := db.QueryRow(q, args...).Scan(&total); err != nil {
		t.Fatalf("total: %v", err)
	}
	if !total.Valid || total.Float64 <= 0 {
		t.Errorf("total = %+v, want positive", total)
	}
}
