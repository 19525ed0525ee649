package mssql

import "github.com/johndauphine/db-volumetry/internal/driver"

// Dialect implements driver.Dialect for SQL Server.
//
// Sizes come from reserved 8 KB pages in sys.dm_db_partition_stats.
// Tables are matched with OBJECT_ID(table_name), which resolves against the
// caller's default schema, so tables outside it may be missing from the
// per-table list while still counting towards the total.
type Dialect struct{}

func (d *Dialect) Kind() driver.Kind { return driver.SQLServer }

func (d *Dialect) TableSizesQuery(string) (string, []any) {
	return `
		SELECT t.TABLE_NAME,
		       CAST(SUM(ps.reserved_page_count) * 8 / 1024.0 AS DECIMAL(18, 2)) AS size_mb
		FROM sys.dm_db_partition_stats ps
		JOIN INFORMATION_SCHEMA.TABLES t ON ps.object_id = OBJECT_ID(t.TABLE_NAME)
		GROUP BY t.TABLE_NAME`, nil
}

func (d *Dialect) TotalSizeQuery(string) (string, []any) {
	return `
		SELECT CAST(SUM(reserved_page_count) * 8 / 1024.0 AS DECIMAL(18, 2)) AS total_size_mb
		FROM sys.dm_db_partition_stats`, nil
}
