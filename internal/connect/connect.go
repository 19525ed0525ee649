// Package connect is the connection factory: it turns a connection request
// into a live, pinged database handle for one of the registered engines.
package connect

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/johndauphine/db-volumetry/internal/driver"
	"github.com/johndauphine/db-volumetry/internal/fault"
	"github.com/johndauphine/db-volumetry/internal/logging"

	// Register every engine the factory can open.
	_ "github.com/johndauphine/db-volumetry/internal/driver/mssql"
	_ "github.com/johndauphine/db-volumetry/internal/driver/mysql"
	_ "github.com/johndauphine/db-volumetry/internal/driver/oracle"
	_ "github.com/johndauphine/db-volumetry/internal/driver/postgres"
	_ "github.com/johndauphine/db-volumetry/internal/driver/sqlite"
)

// Request holds everything needed to open one report connection.
type Request struct {
	Engine          string `json:"engine"`
	Host            string `json:"host,omitempty"`
	Port            int    `json:"port,omitempty"`
	User            string `json:"user,omitempty"`
	Password        string `json:"-"`
	Database        string `json:"database"`
	Schema          string `json:"schema,omitempty"`
	SSLMode         string `json:"ssl_mode,omitempty"`
	Encrypt         string `json:"encrypt,omitempty"`
	TrustServerCert bool   `json:"trust_server_cert,omitempty"`
	PostgresDriver  string `json:"postgres_driver,omitempty"`
}

// Params converts the request to driver connection parameters.
func (r Request) Params() driver.ConnParams {
	return driver.ConnParams{
		Host:            r.Host,
		Port:            r.Port,
		User:            r.User,
		Password:        r.Password,
		Database:        r.Database,
		Schema:          r.Schema,
		SSLMode:         r.SSLMode,
		Encrypt:         r.Encrypt,
		TrustServerCert: r.TrustServerCert,
		PostgresDriver:  r.PostgresDriver,
	}
}

// String describes the request without credentials.
func (r Request) String() string {
	if r.Host == "" {
		return fmt.Sprintf("%s %s", r.Engine, r.Database)
	}
	if r.Port == 0 {
		return fmt.Sprintf("%s %s/%s", r.Engine, r.Host, r.Database)
	}
	return fmt.Sprintf("%s %s:%d/%s", r.Engine, r.Host, r.Port, r.Database)
}

// OpenFunc opens a database/sql pool; sql.Open satisfies it.
type OpenFunc func(driverName, dsn string) (*sql.DB, error)

// Factory opens connection handles.
type Factory struct {
	openDB OpenFunc
}

// NewFactory creates a factory that opens real database/sql pools.
func NewFactory() *Factory {
	return &Factory{openDB: sql.Open}
}

// NewFactoryWithOpener creates a factory using a custom opener, e.g. sqlmock in tests.
func NewFactoryWithOpener(open OpenFunc) *Factory {
	if open == nil {
		open = sql.Open
	}
	return &Factory{openDB: open}
}

// Open resolves the engine, shapes its DSN, opens and pings the connection.
// An unknown engine fails with fault.UnsupportedEngine before anything is
// opened. Every other failure is a fault.ConnectionFailure carrying the
// driver's message, and the returned handle is nil.
func (f *Factory) Open(ctx context.Context, req Request) (*Handle, error) {
	kind, err := driver.ParseKind(req.Engine)
	if err != nil {
		return nil, err
	}
	d, err := driver.Get(kind)
	if err != nil {
		return nil, err
	}

	params := req.Params()
	if params.Port == 0 {
		params.Port = d.Defaults().Port
	}
	if params.Schema == "" {
		params.Schema = d.Defaults().Schema
	}

	dsn, err := d.BuildDSN(params)
	if err != nil {
		return nil, fault.New(fault.ConnectionFailure, fmt.Sprintf("connect to %s", kind.Label()), err)
	}

	db, err := f.openDB(d.SQLDriverName(params), dsn)
	if err != nil {
		return nil, fault.New(fault.ConnectionFailure, fmt.Sprintf("connect to %s", kind.Label()),
			fmt.Errorf("opening connection: %w", err))
	}

	// One report runs one query at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fault.New(fault.ConnectionFailure, fmt.Sprintf("connect to %s", kind.Label()),
			fmt.Errorf("pinging database: %w", err))
	}

	logging.Info("Connected to %s: %s", kind.Label(), describe(kind, params))

	return &Handle{
		db:      db,
		kind:    kind,
		dialect: d.Dialect(),
		target:  d.SizeTarget(params),
	}, nil
}

func describe(kind driver.Kind, p driver.ConnParams) string {
	if kind == driver.SQLite {
		return p.Database
	}
	return fmt.Sprintf("%s:%d/%s", p.Host, p.Port, p.Database)
}

// Handle is an open connection owned by a single report request.
// Close must be called on every exit path.
type Handle struct {
	db      *sql.DB
	kind    driver.Kind
	dialect driver.Dialect
	target  string

	mu       sync.Mutex
	closed   bool
	closeErr error
}

// DB returns the underlying sql.DB.
func (h *Handle) DB() *sql.DB {
	return h.db
}

// Kind returns the engine of this connection.
func (h *Handle) Kind() driver.Kind {
	return h.kind
}

// Dialect returns the catalog dialect matching the engine.
func (h *Handle) Dialect() driver.Dialect {
	return h.dialect
}

// Target returns the schema or database the size queries filter on.
func (h *Handle) Target() string {
	return h.target
}

// Close releases the connection. Calling it again returns the first result.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return h.closeErr
	}
	h.closed = true
	stats := h.Stats()
	h.closeErr = h.db.Close()
	if h.closeErr != nil {
		logging.Warn("Closing %s connection: %v", h.kind.Label(), h.closeErr)
	} else {
		logging.Debug("Closed connection (%s)", stats)
	}
	return h.closeErr
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
