package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PulseHub_Go/internal/database/postgres"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Accounts repository.Account
	Threats  repository.ThreatLog
}

// NewRepositories builds the Postgres-backed repositories. storeTimeout bounds
// each statement.
func NewRepositories(pool *pgxpool.Pool, storeTimeout time.Duration) *Repositories {
	return &Repositories{
		Accounts: postgres.NewAccountRepository(pool, storeTimeout),
		Threats:  postgres.NewThreatLogRepository(pool, storeTimeout),
	}
}
