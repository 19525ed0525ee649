package sqlite

import "github.com/johndauphine/db-volumetry/internal/driver"

// Dialect implements driver.Dialect for SQLite using the dbstat virtual table.
// dbstat reports one row per page; name is the table or index owning it.
type Dialect struct{}

func (d *Dialect) Kind() driver.Kind { return driver.SQLite }

func (d *Dialect) TableSizesQuery(string) (string, []any) {
	return `
		SELECT name,
		       ROUND(SUM(pgsize) / 1024.0 / 1024.0, 2) AS size_mb
		FROM dbstat
		GROUP BY name`, nil
}

func (d *Dialect) TotalSizeQuery(string) (string, []any) {
	return `
		SELECT ROUND(SUM(pgsize) / 1024.0 / 1024.0, 2) AS total_size_mb
		FROM dbstat`, nil
}
