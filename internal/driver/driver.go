// Package driver provides pluggable database engine abstractions.
// Each engine (MySQL, PostgreSQL, SQLite, Oracle, SQL Server) implements the
// Driver interface to provide connection shaping and its catalog SQL dialect
// in one cohesive unit.
package driver

// Kind identifies one of the supported database engines.
type Kind int

const (
	// KindUnknown is the zero value and never registered.
	KindUnknown Kind = iota
	MySQL
	PostgreSQL
	SQLite
	Oracle
	SQLServer
)

// Kinds returns every supported engine kind in display order.
func Kinds() []Kind {
	return []Kind{MySQL, PostgreSQL, SQLite, Oracle, SQLServer}
}

// String returns the canonical lowercase name used in config files and flags.
func (k Kind) String() string {
	switch k {
	case MySQL:
		return "mysql"
	case PostgreSQL:
		return "postgres"
	case SQLite:
		return "sqlite"
	case Oracle:
		return "oracle"
	case SQLServer:
		return "mssql"
	default:
		return "unknown"
	}
}

// Label returns the human-readable engine name shown in selectors.
func (k Kind) Label() string {
	switch k {
	case MySQL:
		return "MySQL"
	case PostgreSQL:
		return "PostgreSQL"
	case SQLite:
		return "SQLite"
	case Oracle:
		return "Oracle"
	case SQLServer:
		return "SQL Server"
	default:
		return "Unknown"
	}
}

// DriverDefaults contains default values for a database driver.
// Used by config.applyDefaults() and the connection factory to fill gaps.
type DriverDefaults struct {
	// Port is the default port (e.g., 5432 for PostgreSQL, 1433 for MSSQL).
	// Zero for file-based engines.
	Port int

	// Schema is the default schema the size queries filter on.
	Schema string

	// SSLMode is the default SSL mode for PostgreSQL-style connections.
	SSLMode string

	// Encrypt is the default encryption setting for MSSQL-style connections.
	Encrypt string
}

// ConnParams carries the connection settings collected from the user.
// Each driver picks the fields its engine needs.
type ConnParams struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	Schema          string
	SSLMode         string
	Encrypt         string
	TrustServerCert bool
	// PostgresDriver selects the database/sql driver for PostgreSQL: "pgx" (default) or "pq".
	PostgresDriver string
}

// Driver represents a pluggable database engine.
//
// To add a new engine:
// 1. Add a Kind constant and its String/Label branches
// 2. Create a package under internal/driver/<engine>/ implementing Driver
// 3. Register via init(): driver.Register(&Driver{})
// 4. Blank-import the package from internal/connect
type Driver interface {
	// Kind returns the engine this driver serves.
	Kind() Kind

	// Aliases returns alternative names accepted for this engine.
	// For example, postgres accepts ["postgresql", "pg"].
	Aliases() []string

	// Defaults returns the default configuration values for this engine.
	Defaults() DriverDefaults

	// SQLDriverName returns the database/sql driver name to open.
	SQLDriverName(p ConnParams) string

	// BuildDSN shapes the connection parameters into this engine's DSN.
	BuildDSN(p ConnParams) (string, error)

	// SizeTarget returns the value the per-table and total size queries filter on.
	// MySQL uses the database name, PostgreSQL the schema; others ignore it.
	SizeTarget(p ConnParams) string

	// Dialect returns the catalog SQL dialect for this engine.
	Dialect() Dialect
}
