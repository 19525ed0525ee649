package postgres

import "github.com/johndauphine/db-volumetry/internal/driver"

// Dialect implements driver.Dialect for PostgreSQL.
//
// information_schema.tables has no data_length/index_length columns in
// PostgreSQL; pg_total_relation_size covers heap, indexes and TOAST, which is
// the same data+index measure.
type Dialect struct{}

func (d *Dialect) Kind() driver.Kind { return driver.PostgreSQL }

func (d *Dialect) TableSizesQuery(target string) (string, []any) {
	return `
		SELECT t.table_name,
		       ROUND(pg_total_relation_size(format('%I.%I', t.table_schema, t.table_name)::regclass) / 1024.0 / 1024.0, 2) AS size_mb
		FROM information_schema.tables t
		WHERE t.table_schema = $1
		  AND t.table_type = 'BASE TABLE'`, []any{target}
}

func (d *Dialect) TotalSizeQuery(target string) (string, []any) {
	return `
		SELECT ROUND(SUM(pg_total_relation_size(format('%I.%I', t.table_schema, t.table_name)::regclass)) / 1024.0 / 1024.0, 2) AS total_size_mb
		FROM information_schema.tables t
		WHERE t.table_schema = $1
		  AND t.table_type = 'BASE TABLE'`, []any{target}
}
