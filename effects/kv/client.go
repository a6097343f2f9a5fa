package kv

import (
	"context"
	"time"
)

// Client is the narrow storage protocol the kv interpreter executes against.
// Get reports a missing key as (_, false, nil); errors are reserved for the
// backend actually failing.
type Client interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) (deleted bool, err error)
	Publish(ctx context.Context, channel, payload string) (receivers int64, err error)
	Close() error
}

// DialFunc opens a Client.
type DialFunc func(ctx context.Context) (Client, error)

// WithClient dials a client, runs fn with it, and closes the client on the
// way out no matter how fn returns. A close failure surfaces only when fn
// itself succeeded.
func WithClient(ctx context.Context, dial DialFunc, fn func(Client) error) (err error) {
	client, err := dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(client)
}
