package mssql

import (
	"strings"
	"testing"

	"github.com/johndauphine/db-volumetry/internal/driver"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		params  driver.ConnParams
		want    []string
		wantErr bool
	}{
		{
			name:   "defaults",
			params: driver.ConnParams{Host: "sql01", User: "sa", Password: "secret", Database: "erp"},
			want:   []string{"odbc:", "server={sql01}", "port={1433}", "database={erp}", "user id={sa}", "password={secret}", "encrypt={true}", "TrustServerCertificate={false}"},
		},
		{
			name:   "password with separators",
			params: driver.ConnParams{Host: "sql01", User: "sa", Password: "a;b=c}d", Database: "erp"},
			want:   []string{"password={a;b=c}}d}"},
		},
		{
			name:   "trust cert and port",
			params: driver.ConnParams{Host: "sql01", Port: 14330, Encrypt: "disable", TrustServerCert: true},
			want:   []string{"port={14330}", "encrypt={disable}", "TrustServerCertificate={true}"},
		},
		{
			name:    "invalid encrypt",
			params:  driver.ConnParams{Host: "sql01", Encrypt: "maybe"},
			wantErr: true,
		},
	}

	d := &Driver{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := d.BuildDSN(tt.params)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got DSN %q", dsn)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildDSN() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(dsn, w) {
					t.Errorf("DSN %q missing %q", dsn, w)
				}
			}
		})
	}
}

func TestDialectPageMath(t *testing.T) {
	d := &Dialect{}
	q, args := d.TableSizesQuery("")
	if !strings.Contains(q, "reserved_page_count) * 8 / 1024.0") {
		t.Errorf("page conversion missing: %s", q)
	}
	if !strings.Contains(q, "OBJECT_ID(t.TABLE_NAME)") {
		t.Errorf("object id join missing: %s", q)
	}
	if args != nil {
		t.Errorf("args = %v, want nil", args)
	}
	q, _ = d.TotalSizeQuery("")
	if !strings.Contains(q, "sys.dm_db_partition_stats") {
		t.Errorf("unexpected total query: %s", q)
	}
}
