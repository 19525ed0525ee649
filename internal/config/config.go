package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/driver"
	"github.com/johndauphine/db-volumetry/internal/tabular"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "volumetry.yaml"

// expandTilde expands ~ or ~/ at the start of a path to the user's home directory
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Config holds all configuration for the volumetry tool
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	File     FileConfig     `yaml:"file"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type            string `yaml:"type"` // mysql, postgres, sqlite, oracle, mssql (or an alias)
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`          // SQLite: file path; Oracle: service name
	Schema          string `yaml:"schema"`            // PostgreSQL: schema to measure (default: public)
	SSLMode         string `yaml:"ssl_mode"`          // PostgreSQL: disable, prefer, require, verify-ca, verify-full (default: prefer)
	Encrypt         string `yaml:"encrypt"`           // MSSQL: disable, false, true, strict (default: true)
	TrustServerCert bool   `yaml:"trust_server_cert"` // MSSQL: trust server certificate (default: false)
	PostgresDriver  string `yaml:"postgres_driver"`   // PostgreSQL: pgx (default) or pq
}

// FileConfig holds tabular file loading settings
type FileConfig struct {
	ChunkSize   int    `yaml:"chunk_size"`   // Rows per chunk in chunked mode (default: 100000)
	PreviewRows int    `yaml:"preview_rows"` // Rows shown per preview (default: 5)
	Sheet       string `yaml:"sheet"`        // XLSX: sheet name (default: first sheet)
}

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	SuppressWarnings bool
}

// Default returns a configuration with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// LoadWithOptions reads configuration from a YAML file with options.
func LoadWithOptions(path string, opts LoadOptions) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// A world-readable file only matters when it holds a literal password.
	if !opts.SuppressWarnings && holdsPlainPassword(data) {
		if warning := checkFilePermissions(path); warning != "" {
			fmt.Fprint(os.Stderr, warning)
		}
	}

	return LoadBytes(data)
}

// holdsPlainPassword reports whether database.password is set to something
// other than an environment reference.
func holdsPlainPassword(data []byte) bool {
	var raw struct {
		Database struct {
			Password string `yaml:"password"`
		} `yaml:"database"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false
	}
	pw := strings.TrimSpace(raw.Database.Password)
	return pw != "" && !strings.HasPrefix(pw, "$")
}

// LoadBytes reads configuration from YAML bytes.
func LoadBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.applyDatabaseDefaults()

	if c.File.ChunkSize == 0 {
		c.File.ChunkSize = tabular.DefaultChunkSize
	}
	if c.File.PreviewRows == 0 {
		c.File.PreviewRows = tabular.DefaultPreviewRows
	}
}

// applyDatabaseDefaults fills engine-specific defaults once the type is known.
// It is safe to call again after flags override the type.
func (c *Config) applyDatabaseDefaults() {
	if c.Database.Type == "" {
		return
	}
	d, err := driver.Lookup(c.Database.Type)
	if err != nil {
		return // reported by Validate
	}
	c.Database.Type = d.Kind().String()

	defaults := d.Defaults()
	if c.Database.Port == 0 {
		c.Database.Port = defaults.Port
	}
	if c.Database.Schema == "" {
		c.Database.Schema = defaults.Schema
	}
	if d.Kind() == driver.PostgreSQL && c.Database.SSLMode == "" {
		c.Database.SSLMode = defaults.SSLMode
	}
	if d.Kind() == driver.SQLServer && c.Database.Encrypt == "" {
		c.Database.Encrypt = defaults.Encrypt
	}
	if d.Kind() == driver.SQLite {
		c.Database.Database = expandTilde(c.Database.Database)
	}
}

// Validate checks the configuration. The database section is only checked
// when an engine type is set, since file-only use needs none of it.
func (c *Config) Validate() error {
	if c.File.ChunkSize < 0 {
		return fmt.Errorf("file.chunk_size must not be negative, got %d", c.File.ChunkSize)
	}
	if c.File.PreviewRows < 0 {
		return fmt.Errorf("file.preview_rows must not be negative, got %d", c.File.PreviewRows)
	}

	if c.Database.Type == "" {
		return nil
	}
	return c.ValidateDatabase()
}

// ValidateDatabase checks the settings needed to open a connection.
func (c *Config) ValidateDatabase() error {
	if c.Database.Type == "" {
		return fmt.Errorf("database.type is required (available: %s)", strings.Join(driver.Available(), ", "))
	}
	kind, err := driver.ParseKind(c.Database.Type)
	if err != nil {
		return err
	}
	if c.Database.Database == "" {
		if kind == driver.SQLite {
			return fmt.Errorf("database.database (sqlite file path) is required")
		}
		return fmt.Errorf("database.database is required")
	}
	if kind != driver.SQLite && c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port must be between 0 and 65535, got %d", c.Database.Port)
	}
	return nil
}

// SetDatabaseType overrides the engine and re-applies engine defaults.
// Engine defaults set for the previous type are cleared first.
func (c *Config) SetDatabaseType(engine string) {
	if engine == c.Database.Type {
		return
	}
	if prev, err := driver.Lookup(c.Database.Type); err == nil {
		defaults := prev.Defaults()
		if c.Database.Port == defaults.Port {
			c.Database.Port = 0
		}
		if c.Database.Schema == defaults.Schema {
			c.Database.Schema = ""
		}
	}
	c.Database.Type = engine
	c.applyDatabaseDefaults()
}

// ConnectRequest converts the database section into a factory request.
func (c *Config) ConnectRequest() connect.Request {
	return connect.Request{
		Engine:          c.Database.Type,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		Schema:          c.Database.Schema,
		SSLMode:         c.Database.SSLMode,
		Encrypt:         c.Database.Encrypt,
		TrustServerCert: c.Database.TrustServerCert,
		PostgresDriver:  c.Database.PostgresDriver,
	}
}

// LoaderOptions converts the file section into tabular loader options.
func (c *Config) LoaderOptions() tabular.Options {
	return tabular.Options{
		ChunkSize:   c.File.ChunkSize,
		PreviewRows: c.File.PreviewRows,
		Sheet:       c.File.Sheet,
	}
}

// WholeFileWarnMB returns the file size above which loading a whole file
// into memory deserves a warning: a quarter of system memory.
func WholeFileWarnMB() int64 {
	return getAvailableMemoryMB() / 4
}

// Sanitized returns a copy of the config with sensitive fields redacted
func (c *Config) Sanitized() *Config {
	sanitized := *c // shallow copy
	if sanitized.Database.Password != "" {
		sanitized.Database.Password = "[REDACTED]"
	}
	return &sanitized
}
