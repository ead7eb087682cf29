package testutil

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/bonkgamesio/bonkgames-sub000/internal/db/migrations"
)

// Match store container settings.
const (
	TestDBName     = "arena_test"
	TestDBUser     = "arena"
	TestDBPassword = "arena"
)

// SetupTestDB returns a pool on a throwaway PostgreSQL container with the
// match store schema in place. Needs a container runtime, so -short skips
// it. The container goes away with the test.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("match store tests need a container runtime")
	}
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase(TestDBName),
		postgres.WithUsername(TestDBUser),
		postgres.WithPassword(TestDBPassword),
		postgres.BasicWaitStrategies(),
	)
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			tb.Logf("match store container: %v", err)
		}
	})
	if err != nil {
		tb.Fatalf("match store container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("match store dsn: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		tb.Fatalf("match store pool: %v", err)
	}
	tb.Cleanup(pool.Close)

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	if err := migrations.Up(ctx, sqlDB); err != nil {
		tb.Fatalf("match store schema: %v", err)
	}
	return pool
}

// TruncateMatches empties the match tables between subtests.
func TruncateMatches(tb testing.TB, pool *pgxpool.Pool) {
	tb.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE match_events, matches RESTART IDENTITY CASCADE`); err != nil {
		tb.Fatalf("truncating match tables: %v", err)
	}
}
