package driver

// Dialect abstracts the catalog queries that measure storage size.
// Each database driver provides its own Dialect implementation.
//
// Both queries return sizes in megabytes. TableSizesQuery returns rows of
// (table name, size); TotalSizeQuery returns at most one row with a single,
// possibly NULL, aggregate.
type Dialect interface {
	// Kind returns the engine this dialect belongs to.
	Kind() Kind

	// TableSizesQuery returns the per-table size query and its arguments.
	TableSizesQuery(target string) (string, []any)

	// TotalSizeQuery returns the whole-database size query and its arguments.
	TotalSizeQuery(target string) (string, []any)
}
