package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// GetDb returns a connection to POSTGRES_URL, or to a fresh Postgres container when the
// variable is unset. The schema is initialized (and seeded) before returning.
func GetDb(t *testing.T) *sqlx.DB {
	t.Helper()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		container, connStr := StartPostgresContainer()
		t.Cleanup(func() {
			_ = container.Terminate(context.Background())
		})
		postgresURL = connStr
	}

	db, err := Open(postgresURL)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	err = InitializeDatabaseSchema(context.Background(), db)
	require.NoError(t, err)

	return db
}

func StartPostgresContainer() (testcontainers.Container, string) {
	ctx := context.Background()
	dbName := "db"
	dbUser := "user"
	dbPassword := "password"

	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		panic(err)
	}

	return postgresContainer, connStr
}
