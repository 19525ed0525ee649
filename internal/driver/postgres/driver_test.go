package postgres

import (
	"net/url"
	"strings"
	"testing"

	"github.com/johndauphine/db-volumetry/internal/driver"
)

func TestBuildDSNURLEncoding(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		database string
	}{
		{"plain credentials", "admin", "secret", "mydb"},
		{"password with @", "admin", "pass@word", "mydb"},
		{"password with colon", "admin", "pass:word", "mydb"},
		{"password with slash", "admin", "pass/word", "mydb"},
		{"complex password", "admin", "P@ss:w/rd?123", "mydb"},
		{"user with @", "user@domain", "secret", "mydb"},
	}

	d := &Driver{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := d.BuildDSN(driver.ConnParams{
				Host: "localhost", User: tt.user, Password: tt.password, Database: tt.database,
			})
			if err != nil {
				t.Fatalf("BuildDSN() error: %v", err)
			}
			u, err := url.Parse(dsn)
			if err != nil {
				t.Fatalf("DSN %q does not parse: %v", dsn, err)
			}
			pass, _ := u.User.Password()
			if u.User.Username() != tt.user || pass != tt.password {
				t.Errorf("credentials did not round-trip: user=%q pass=%q", u.User.Username(), pass)
			}
			if u.Path != "/"+tt.database {
				t.Errorf("path = %q, want /%s", u.Path, tt.database)
			}
			if u.Port() != "5432" {
				t.Errorf("port = %q, want default 5432", u.Port())
			}
			if u.Query().Get("sslmode") != "prefer" {
				t.Errorf("sslmode = %q, want prefer", u.Query().Get("sslmode"))
			}
		})
	}
}

func TestSQLDriverName(t *testing.T) {
	d := &Driver{}
	tests := map[string]string{
		"":       "pgx",
		"pgx":    "pgx",
		"pq":     "postgres",
		"lib/pq": "postgres",
	}
	for in, want := range tests {
		if got := d.SQLDriverName(driver.ConnParams{PostgresDriver: in}); got != want {
			t.Errorf("SQLDriverName(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := d.BuildDSN(driver.ConnParams{Host: "h", PostgresDriver: "odbc"}); err == nil {
		t.Error("expected error for unknown postgres driver")
	}
}

func TestSizeTargetDefaultsToPublic(t *testing.T) {
	d := &Driver{}
	if got := d.SizeTarget(driver.ConnParams{Database: "app"}); got != "public" {
		t.Errorf("SizeTarget() = %q, want public", got)
	}
	if got := d.SizeTarget(driver.ConnParams{Database: "app", Schema: "sales"}); got != "sales" {
		t.Errorf("SizeTarget() = %q, want sales", got)
	}
}

func TestDialectQueries(t *testing.T) {
	d := &Dialect{}
	q, args := d.TableSizesQuery("public")
	if !strings.Contains(q, "information_schema.tables") || !strings.Contains(q, "$1") {
		t.Errorf("unexpected query: %s", q)
	}
	if len(args) != 1 || args[0] != "public" {
		t.Errorf("args = %v", args)
	}
	q, _ = d.TotalSizeQuery("public")
	if !strings.Contains(q, "SUM(pg_total_relation_size") {
		t.Errorf("unexpected total query: %s", q)
	}
}
