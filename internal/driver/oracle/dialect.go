package oracle

import "github.com/johndauphine/db-volumetry/internal/driver"

// Dialect implements driver.Dialect for Oracle.
// Oracle rejects a trailing semicolon, so none of these have one.
type Dialect struct{}

func (d *Dialect) Kind() driver.Kind { return driver.Oracle }

func (d *Dialect) TableSizesQuery(string) (string, []any) {
	return `
		SELECT segment_name,
		       ROUND(SUM(bytes) / 1024 / 1024, 2) AS size_mb
		FROM user_segments
		GROUP BY segment_name`, nil
}

func (d *Dialect) TotalSizeQuery(string) (string, []any) {
	return `
		SELECT ROUND(SUM(bytes) / 1024 / 1024, 2) AS total_size_mb
		FROM user_segments`, nil
}
