package db

import (
	"context"
)

// Querier runs the four query shapes. Both a whole pool and a single
// acquired connection satisfy it.
type Querier interface {
	// Execute runs a statement and returns its command tag.
	Execute(ctx context.Context, query string, args ...any) (string, error)
	// Fetch returns every row of the query.
	Fetch(ctx context.Context, query string, args ...any) ([]Row, error)
	// FetchRow returns the first row, reporting whether one existed.
	FetchRow(ctx context.Context, query string, args ...any) (Row, bool, error)
	// FetchVal returns the first column of the first row, reporting whether
	// a row existed.
	FetchVal(ctx context.Context, query string, args ...any) (any, bool, error)
}

// Pool is the backend protocol of the db family. Implementations own a set
// of connections and hand out scoped ones through Acquire.
type Pool interface {
	Querier
	// Acquire pins one connection. The release func must be called exactly
	// once when the caller is done with it.
	Acquire(ctx context.Context) (Querier, func(), error)
	// Close tears the pool down. Ops after Close fail.
	Close()
}

// DialFunc opens a Pool from a DSN.
type DialFunc func(ctx context.Context, dsn string) (Pool, error)

// WithPool opens a pool, hands it to fn, and closes it on every path.
func WithPool(ctx context.Context, dial DialFunc, dsn string, fn func(Pool) error) error {
	pool, err := dial(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}
