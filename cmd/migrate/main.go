package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/migration"
)

// sql driver names registered by the blank imports
var sqlDrivers = map[string]string{
	config.DriverPostgres: "postgres",
	config.DriverSQLite:   "sqlite3",
}

type runner struct {
	log *zap.Logger
	cfg *config.Config
}

func main() {
	r := &runner{}

	app := &cli.Command{
		Name:  "migrate",
		Usage: "Manage the movie catalog database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Migrations root containing one directory per driver (default: database.migrations_path)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
		},
		Before: r.setup,
		After: func(ctx context.Context, _ *cli.Command) error {
			if r.log != nil {
				_ = logger.Sync(r.log)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: r.withMigrator(func(m *migration.Migrator, _ *cli.Command) error { return m.Up() }),
			},
			{
				Name:   "down",
				Usage:  "Roll back all migrations",
				Action: r.withMigrator(func(m *migration.Migrator, _ *cli.Command) error { return m.Down() }),
			},
			{
				Name:      "step",
				Usage:     "Apply n migrations (positive=up, negative=down)",
				ArgsUsage: "<n>",
				Action: r.withMigrator(func(m *migration.Migrator, cmd *cli.Command) error {
					n, err := strconv.Atoi(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("invalid step count %q", cmd.Args().First())
					}
					return m.Steps(n)
				}),
			},
			{
				Name:      "goto",
				Usage:     "Migrate to a specific version",
				ArgsUsage: "<version>",
				Action: r.withMigrator(func(m *migration.Migrator, cmd *cli.Command) error {
					version, err := strconv.ParseUint(cmd.Args().First(), 10, 32)
					if err != nil {
						return fmt.Errorf("invalid version %q", cmd.Args().First())
					}
					return m.GoTo(uint(version))
				}),
			},
			{
				Name:  "version",
				Usage: "Show the current migration version",
				Action: r.withMigrator(func(m *migration.Migrator, _ *cli.Command) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if version == 0 {
						r.log.Info("No migrations applied")
						return nil
					}
					r.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "Force set the migration version (use with caution)",
				ArgsUsage: "<version>",
				Action: r.withMigrator(func(m *migration.Migrator, cmd *cli.Command) error {
					version, err := strconv.Atoi(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("invalid version %q", cmd.Args().First())
					}
					r.log.Warn("Forcing migration version", zap.Int("version", version))
					return m.Force(version)
				}),
			},
			{
				Name:      "create",
				Usage:     "Create an empty migration pair for every driver",
				ArgsUsage: "<name> [description]",
				Action:    r.create,
			},
			{
				Name:   "list",
				Usage:  "List the migrations of the configured driver",
				Action: r.list,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if r.log != nil {
			r.log.Fatal("Migration command failed", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func (r *runner) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log, err := logger.New(&logger.Config{
		Level:      cmd.String("log-level"),
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to initialize logger: %w", err)
	}
	r.log = log

	cfg, err := config.Load()
	if err != nil {
		return ctx, fmt.Errorf("failed to load configuration: %w", err)
	}
	if path := cmd.String("path"); path != "" {
		cfg.Database.MigrationsPath = path
	}
	abs, err := filepath.Abs(cfg.Database.MigrationsPath)
	if err != nil {
		return ctx, fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	cfg.Database.MigrationsPath = abs
	r.cfg = cfg

	r.log.Debug("Migration CLI started",
		zap.String("driver", cfg.Database.Driver),
		zap.String("migrations_path", abs),
	)
	return ctx, nil
}

// withMigrator opens the configured database for commands that need one
func (r *runner) withMigrator(fn func(*migration.Migrator, *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		dbCfg := r.cfg.Database
		sqlDriver, ok := sqlDrivers[dbCfg.Driver]
		if !ok {
			return fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
		}
		db, err := sql.Open(sqlDriver, dbCfg.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}

		m, err := migration.New(db, dbCfg.Driver, dbCfg.MigrationsPath, r.log)
		if err != nil {
			_ = db.Close()
			return err
		}
		// closes db as well
		defer func() { _ = m.Close() }()

		return fn(m, cmd)
	}
}

func (r *runner) create(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("migration name required: migrate create <name> [description]")
	}
	files, err := migration.CreateMigration(r.cfg.Database.MigrationsPath, name, cmd.Args().Get(1))
	if err != nil {
		return err
	}
	for _, f := range files {
		r.log.Info("Migration created",
			zap.String("driver", f.Driver),
			zap.String("version", f.Version),
			zap.String("up_file", f.UpPath),
			zap.String("down_file", f.DownPath),
		)
	}
	return nil
}

func (r *runner) list(_ context.Context, _ *cli.Command) error {
	dir := filepath.Join(r.cfg.Database.MigrationsPath, r.cfg.Database.Driver)
	names, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		r.log.Info("No migrations found", zap.String("dir", dir))
		return nil
	}
	r.log.Info("Available migrations", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println("  -", n)
	}
	return nil
}
