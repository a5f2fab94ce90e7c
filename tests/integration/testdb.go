// Package integration runs the repositories and the HTTP engine against a
// real PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/infrastructure/migration"
	"github.com/moviecatalog/backend/internal/infrastructure/persistence"
)

const (
	testDBName     = "movies_test"
	testDBUser     = "postgres"
	testDBPassword = "postgres"
)

var (
	// Shared container for all tests in the package
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
	sharedConfig      config.DatabaseConfig
)

// TestDB is a migrated PostgreSQL database opened through the persistence layer
type TestDB struct {
	*persistence.Database
	SqlDB  *sql.DB
	Config config.DatabaseConfig
	t      *testing.T
}

// NewSharedTestDB returns a connection to the package's shared container,
// starting and migrating it on first use. Tests call CleanTables to isolate.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase(testDBName),
			tcpostgres.WithUsername(testDBUser),
			tcpostgres.WithPassword(testDBPassword),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")

		host, err := container.Host(ctx)
		require.NoError(t, err, "Failed to get container host")
		port, err := container.MappedPort(ctx, "5432/tcp")
		require.NoError(t, err, "Failed to get container port")

		cfg := config.DatabaseConfig{
			Driver:       config.DriverPostgres,
			Host:         host,
			Port:         port.Int(),
			User:         testDBUser,
			Password:     testDBPassword,
			DBName:       testDBName,
			SSLMode:      "disable",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		}

		tdb := connect(t, cfg)
		runMigrations(t, tdb.SqlDB)
		require.NoError(t, tdb.Close())

		sharedContainer = container
		sharedConfig = cfg
	}

	tdb := connect(t, sharedConfig)
	t.Cleanup(func() {
		_ = tdb.Close()
	})
	return tdb
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		_ = sharedContainer.Terminate(context.Background())
		sharedContainer = nil
	}
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// connect opens the database the way the server does
func connect(t *testing.T, cfg config.DatabaseConfig) *TestDB {
	t.Helper()

	level := gormlogger.Silent
	// Enable SQL logging if TEST_DB_DEBUG is set
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}

	db, err := persistence.NewDatabase(&cfg, persistence.WithLogger(gormlogger.Default.LogMode(level)))
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	return &TestDB{Database: db, SqlDB: sqlDB, Config: cfg, t: t}
}

// runMigrations applies the postgres migrations. The migrator is left open
// because closing it would close sqlDB too.
func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	root := findMigrationsPath()
	require.NotEmpty(t, root, "Could not find migrations directory")

	m, err := migration.New(sqlDB, config.DriverPostgres, root, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// findMigrationsPath locates the migrations root relative to this file
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	// tests/integration -> repository root
	dir := filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
	if _, err := os.Stat(filepath.Join(dir, config.DriverPostgres)); err == nil {
		abs, _ := filepath.Abs(dir)
		return abs
	}

	// Fall back to the working directory for out-of-tree runs
	if cwd, err := os.Getwd(); err == nil {
		for d := cwd; d != filepath.Dir(d); d = filepath.Dir(d) {
			candidate := filepath.Join(d, "migrations")
			if _, err := os.Stat(filepath.Join(candidate, config.DriverPostgres)); err == nil {
				return candidate
			}
		}
	}
	return ""
}
