package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/johndauphine/db-volumetry/internal/config"
	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/exitcodes"
	"github.com/johndauphine/db-volumetry/internal/logging"
	"github.com/johndauphine/db-volumetry/internal/render"
	"github.com/johndauphine/db-volumetry/internal/tui"
	"github.com/johndauphine/db-volumetry/internal/volumetry"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		code := exitcodes.FromError(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Debug("Exit code %d (%s)", code, exitcodes.Description(code))
		os.Exit(code)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "volumetry",
		Usage:   "Measure database table sizes and CSV/XLSX memory footprint",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "Path to configuration file (optional unless set explicitly)",
			},
			&cli.BoolFlag{
				Name:  "output-json",
				Usage: "Output JSON result to stdout on completion (logs go to stderr)",
			},
			&cli.StringFlag{
				Name:  "output-file",
				Usage: "Write JSON result to file on completion",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log format: text or json",
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Value: "info",
				Usage: "Log verbosity level (debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.ParseLevel(c.String("verbosity"))
			if err != nil {
				return exitcodes.NewExitError(err, exitcodes.ConfigError)
			}
			logging.SetLevel(level)

			if c.String("log-format") == "json" {
				logging.SetFormat("json")
			}

			// Redirect logs to stderr when JSON output is enabled
			if c.Bool("output-json") || c.String("output-file") != "" {
				logging.SetOutput(os.Stderr)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return startTUI(c)
			}
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "db",
				Usage:  "Report per-table and total storage size of a database",
				Action: runDatabaseReport,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "engine",
						Aliases: []string{"e"},
						Usage:   "Database engine: mysql, postgres, sqlite, oracle, mssql (or an alias)",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Database host",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Database port (default: engine default)",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Database user",
					},
					&cli.StringFlag{
						Name:    "password",
						Usage:   "Database password",
						EnvVars: []string{"VOLUMETRY_PASSWORD"},
					},
					&cli.BoolFlag{
						Name:  "password-prompt",
						Usage: "Read the password from the terminal without echo",
					},
					&cli.StringFlag{
						Name:  "database",
						Usage: "Database name (SQLite: file path, Oracle: service name)",
					},
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Schema to measure (PostgreSQL, default: public)",
					},
					&cli.StringFlag{
						Name:  "ssl-mode",
						Usage: "PostgreSQL sslmode (disable, prefer, require, verify-ca, verify-full)",
					},
				},
			},
			{
				Name:      "file",
				Usage:     "Measure the in-memory footprint of a CSV or XLSX file",
				ArgsUsage: "<path>",
				Action:    runFileReport,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Rows per chunk; 0 reads the whole file at once",
					},
					&cli.BoolFlag{
						Name:  "chunked",
						Usage: "Read in chunks of file.chunk_size rows from the config",
					},
					&cli.IntFlag{
						Name:  "preview-rows",
						Usage: "Rows to show in each preview (default: 5)",
					},
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "XLSX sheet to read (default: first sheet)",
					},
				},
			},
			{
				Name:   "engines",
				Usage:  "List supported database engines and their aliases",
				Action: listEngines,
			},
		},
	}
}

func startTUI(c *cli.Context) error {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return err
	}
	return tui.Start(tui.Options{Config: cfg, ConfigPath: path})
}

// loadConfig reads the config file. A missing file at the default path is
// not an error; the returned path is empty when no file was read.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !c.IsSet("config") {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	logging.Debug("Loaded config %s", path)
	return cfg, path, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nInterrupted. Stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func runDatabaseReport(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyDatabaseFlags(c, cfg); err != nil {
		return err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return classifyConfigError(err)
	}
	if logging.Enabled(logging.LevelDebug) {
		logging.Debug("Database settings: %+v", cfg.Sanitized().Database)
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc := volumetry.NewService(connect.NewFactory())
	report, runErr := svc.Report(ctx, cfg.ConnectRequest())

	if wantsJSON(c) {
		doc := databaseDocument{Report: report}
		if runErr != nil {
			doc.Error = runErr.Error()
		}
		if err := outputJSON(c, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to output JSON: %v\n", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	if !c.Bool("output-json") {
		return render.Report(os.Stdout, report)
	}
	return nil
}

// databaseDocument is the JSON result of the db command.
type databaseDocument struct {
	*volumetry.Report
	Error string `json:"error,omitempty"`
}

func applyDatabaseFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("engine") {
		cfg.SetDatabaseType(c.String("engine"))
	}
	if c.IsSet("host") {
		cfg.Database.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Database.Port = c.Int("port")
	}
	if c.IsSet("user") {
		cfg.Database.User = c.String("user")
	}
	if c.IsSet("password") {
		cfg.Database.Password = c.String("password")
	}
	if c.IsSet("database") {
		cfg.Database.Database = c.String("database")
	}
	if c.IsSet("schema") {
		cfg.Database.Schema = c.String("schema")
	}
	if c.IsSet("ssl-mode") {
		cfg.Database.SSLMode = c.String("ssl-mode")
	}
	if c.Bool("password-prompt") {
		password, err := promptPassword(os.Stdin, os.Stderr)
		if err != nil {
			return exitcodes.NewExitError(err, exitcodes.ConfigError)
		}
		cfg.Database.Password = password
	}
	return nil
}

func listEngines(c *cli.Context) error {
	render.Engines(os.Stdout)
	return nil
}
