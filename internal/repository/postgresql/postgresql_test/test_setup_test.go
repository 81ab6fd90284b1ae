package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/migration"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabaseSetup holds the database shared by the repository tests.
type TestDatabaseSetup struct {
	DB        *database.DB
	container testcontainers.Container
}

var (
	setupOnce sync.Once
	shared    *TestDatabaseSetup
	setupErr  error
)

// NewTestDatabase connects to TEST_DATABASE_URL, or starts a throwaway
// Postgres container when it is unset, and applies the migrations. The test
// is skipped when neither is available.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	setupOnce.Do(func() {
		shared, setupErr = openTestDatabase(context.Background(), dsn)
	})
	if setupErr != nil {
		t.Skipf("test database unavailable: %v", setupErr)
	}
	return shared
}

func openTestDatabase(ctx context.Context, dsn string) (*TestDatabaseSetup, error) {
	setup := &TestDatabaseSetup{}

	if dsn == "" {
		container, err := tcpostgres.Run(ctx,
			"postgres:17-alpine",
			tcpostgres.WithDatabase("factory_payroll_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start postgres container: %w", err)
		}
		setup.container = container

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			return nil, fmt.Errorf("failed to get connection string: %w", err)
		}
	}

	m, err := migration.New(dsn, migrationsPath())
	if err != nil {
		return nil, err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		return nil, err
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	setup.DB = db

	return setup, nil
}

func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

// TruncateAllTables removes all rows written by the tests.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := t.DB.Exec(ctx, `
		TRUNCATE TABLE salary_records, night_shift_ledger, advance_ledger,
			leave_ledger, sandwich_dates, attendances, employees CASCADE
	`)
	return err
}

// Close releases the pool and the container, if one was started.
func (t *TestDatabaseSetup) Close(ctx context.Context) {
	if t.DB != nil {
		t.DB.Close()
	}
	if t.container != nil {
		_ = t.container.Terminate(ctx)
	}
}

// shutdown is called from TestMain once every test has run.
func shutdown() {
	if shared != nil {
		shared.Close(context.Background())
	}
}
