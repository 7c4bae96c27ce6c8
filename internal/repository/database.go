package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
)

// buildDSN assembles the connection URL with proper escaping, so credentials
// containing URL-reserved characters (@, /, #, spaces) survive parsing.
func buildDSN(host, port, user, password, name string) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}

	return dsn.String()
}

// NewDatabase opens a pgx connection pool against the TeslaMate database and
// verifies connectivity with a ping. An unreachable database is a fatal error
// for the caller, nothing in this tool can proceed without it.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, buildDSN(host, port, user, password, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
