package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/on-the-ground/interpret_ive_go/shared/helper"
)

const dialAttempts = 3

// pgxBackend is the slice of the pgx API the adapter needs. *pgxpool.Pool
// and *pgxpool.Conn both satisfy it.
type pgxBackend interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Pool    = (*PgxPool)(nil)
	_ Querier = pgxQuerier{}
)

// PgxPool adapts a pgxpool.Pool to the Pool protocol.
type PgxPool struct {
	pgxQuerier
	pool *pgxpool.Pool
}

// Dial opens a pgx pool against dsn and verifies it with a ping.
func Dial(ctx context.Context, dsn string) (Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database dsn: %w", err)
	}
	if err := helper.Retry(dialAttempts, func() error {
		return pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return NewPgxPool(pool), nil
}

// NewPgxPool wraps an already constructed pool.
func NewPgxPool(pool *pgxpool.Pool) *PgxPool {
	return &PgxPool{
		pgxQuerier: pgxQuerier{backend: pool},
		pool:       pool,
	}
}

func (p *PgxPool) Acquire(ctx context.Context) (Querier, func(), error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return pgxQuerier{backend: conn}, conn.Release, nil
}

func (p *PgxPool) Close() {
	p.pool.Close()
}

// pgxQuerier maps the four query shapes onto one pgx backend.
type pgxQuerier struct {
	backend pgxBackend
}

func (q pgxQuerier) Execute(ctx context.Context, query string, args ...any) (string, error) {
	tag, err := q.backend.Exec(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("failed to execute statement: %w", err)
	}
	return tag.String(), nil
}

func (q pgxQuerier) Fetch(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := q.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows: %w", err)
	}
	return collected, nil
}

func (q pgxQuerier) FetchRow(ctx context.Context, query string, args ...any) (Row, bool, error) {
	rows, err := q.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to run query: %w", err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to collect row: %w", err)
	}
	return row, true, nil
}

func (q pgxQuerier) FetchVal(ctx context.Context, query string, args ...any) (any, bool, error) {
	var val any
	err := q.backend.QueryRow(ctx, query, args...).Scan(&val)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan value: %w", err)
	}
	return val, true, nil
}
