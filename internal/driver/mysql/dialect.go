package mysql

import "github.com/johndauphine/db-volumetry/internal/driver"

// Dialect implements driver.Dialect for MySQL.
type Dialect struct{}

func (d *Dialect) Kind() driver.Kind { return driver.MySQL }

func (d *Dialect) TableSizesQuery(target string) (string, []any) {
	return `
		SELECT table_name,
		       ROUND((data_length + index_length) / 1024 / 1024, 2) AS size_mb
		FROM information_schema.tables
		WHERE table_schema = ?`, []any{target}
}

func (d *Dialect) TotalSizeQuery(target string) (string, []any) {
	return `
		SELECT ROUND(SUM(data_length + index_length) / 1024 / 1024, 2) AS total_size_mb
		FROM information_schema.tables
		WHERE table_schema = ?`, []any{target}
}
