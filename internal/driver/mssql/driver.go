// Package mssql provides the Microsoft SQL Server driver implementation.
// It registers itself with the driver registry on import.
package mssql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johndauphine/db-volumetry/internal/driver"
	_ "github.com/microsoft/go-mssqldb"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for Microsoft SQL Server.
type Driver struct{}

// Kind returns the engine kind.
func (d *Driver) Kind() driver.Kind {
	return driver.SQLServer
}

// Aliases returns alternative names for the driver.
func (d *Driver) Aliases() []string {
	return []string{"sqlserver", "sql-server", "sql server"}
}

// Defaults returns the default configuration values for MSSQL.
func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{
		Port:    1433,
		Schema:  "dbo",
		Encrypt: "true", // Secure default
	}
}

// SQLDriverName returns the go-mssqldb registration name.
func (d *Driver) SQLDriverName(driver.ConnParams) string {
	return "sqlserver"
}

// BuildDSN builds an ODBC-style driver string rather than a URL.
// Every value is brace-quoted so passwords may contain ';' or '='.
func (d *Driver) BuildDSN(p driver.ConnParams) (string, error) {
	defaults := d.Defaults()
	port := p.Port
	if port == 0 {
		port = defaults.Port
	}
	encrypt := p.Encrypt
	if encrypt == "" {
		encrypt = defaults.Encrypt
	}
	switch strings.ToLower(encrypt) {
	case "true", "false", "disable", "strict":
	default:
		return "", fmt.Errorf("invalid encrypt value %q (valid: true, false, disable, strict)", encrypt)
	}

	pairs := [][2]string{
		{"server", p.Host},
		{"port", strconv.Itoa(port)},
		{"database", p.Database},
		{"user id", p.User},
		{"password", p.Password},
		{"encrypt", strings.ToLower(encrypt)},
		{"TrustServerCertificate", strconv.FormatBool(p.TrustServerCert)},
	}
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		parts = append(parts, kv[0]+"="+quoteODBC(kv[1]))
	}
	return "odbc:" + strings.Join(parts, ";"), nil
}

// quoteODBC wraps a value in braces, doubling any closing brace.
func quoteODBC(v string) string {
	return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
}

// SizeTarget is unused; partition stats cover the connected database.
func (d *Driver) SizeTarget(driver.ConnParams) string {
	return ""
}

// Dialect returns the MSSQL dialect.
func (d *Driver) Dialect() driver.Dialect {
	return &Dialect{}
}
