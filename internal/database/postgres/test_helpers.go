package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var (
	testDBConnString string
	testPool         *pgxpool.Pool
)

// requirePool skips integration tests when no database container is running
// and empties the tables so every test starts clean.
func requirePool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}

	_, err := testPool.Exec(context.Background(), `TRUNCATE threat_logs, accounts RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return testPool
}
