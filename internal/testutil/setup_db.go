package testutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// SetupTestDB starts a Postgres container, waits for readiness, applies the
// schema and returns the pool plus a teardown func.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()
	postgresC, err := tcpostgres.Run(ctx,
		"postgres:17-alpine",
		tcpostgres.WithDatabase("peerpay"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("secret"),
	)
	assert.NoError(t, err)

	dbURL, err := postgresC.ConnectionString(ctx, "sslmode=disable")
	assert.NoError(t, err)

	var pool *pgxpool.Pool
	for i := 0; i < 20; i++ {
		pool, err = pgxpool.New(ctx, dbURL)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				break
			}
			pool.Close()
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "[testutil] Postgres did not become ready in time. Container logs:")
		logs, logErr := postgresC.Logs(ctx)
		if logErr == nil {
			io.Copy(os.Stderr, logs)
		} else {
			fmt.Fprintln(os.Stderr, "[testutil] Failed to get container logs:", logErr)
		}
	}
	assert.NoError(t, err, "Postgres did not become ready in time")

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			first_name VARCHAR(45) NOT NULL,
			last_name VARCHAR(45) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS payment_methods (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			kind VARCHAR(10) NOT NULL CHECK (kind IN ('wallet', 'bank', 'card')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_wallet_per_user
			ON payment_methods (user_id) WHERE kind = 'wallet';
		CREATE TABLE IF NOT EXISTS wallets (
			method_id UUID PRIMARY KEY REFERENCES payment_methods(id),
			balance DECIMAL(15, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0)
		);
		CREATE TABLE IF NOT EXISTS banks (
			method_id UUID PRIMARY KEY REFERENCES payment_methods(id) ON DELETE CASCADE,
			routing_number CHAR(9) NOT NULL,
			account_number CHAR(10) NOT NULL,
			holder_first_name VARCHAR(45) NOT NULL,
			holder_last_name VARCHAR(45) NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cards (
			method_id UUID PRIMARY KEY REFERENCES payment_methods(id) ON DELETE CASCADE,
			card_number CHAR(16) UNIQUE NOT NULL,
			card_type VARCHAR(10) NOT NULL CHECK (card_type IN ('credit', 'debit')),
			security_code CHAR(3) NOT NULL,
			expiration_date DATE NOT NULL,
			holder_first_name VARCHAR(45) NOT NULL,
			holder_last_name VARCHAR(45) NOT NULL
		);
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			type VARCHAR(10) NOT NULL CHECK (type IN ('send', 'request')),
			category VARCHAR(45) NOT NULL,
			amount DECIMAL(15, 2) NOT NULL CHECK (amount > 0),
			description VARCHAR(200) NOT NULL DEFAULT '',
			creator_id UUID NOT NULL REFERENCES users(id),
			receiver_id UUID NOT NULL REFERENCES users(id),
			payment_method_id UUID REFERENCES payment_methods(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_complete BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_creator ON transactions (creator_id);
		CREATE INDEX IF NOT EXISTS idx_transactions_receiver ON transactions (receiver_id);
	`)
	assert.NoError(t, err)

	return pool, func() {
		pool.Close()
		postgresC.Terminate(ctx)
	}
}
