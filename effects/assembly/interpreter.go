package assembly

import (
	"context"
	"fmt"

	"github.com/on-the-ground/interpret_ive_go/effects"
	"github.com/on-the-ground/interpret_ive_go/effects/db"
	"github.com/on-the-ground/interpret_ive_go/effects/kv"
)

// ClientOpener dials a key-value client from a URL.
type ClientOpener func(ctx context.Context, url string) (kv.Client, error)

var _ effects.Interpreter = (*Interpreter)(nil)

// Interpreter assembles backend resources. By default it dials real
// backends: pgx for pools, redis for key-value clients.
type Interpreter struct {
	openPool   db.DialFunc
	openClient ClientOpener
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithDatabaseOpener overrides how database pools are dialed.
func WithDatabaseOpener(dial db.DialFunc) Option {
	return func(in *Interpreter) {
		if dial != nil {
			in.openPool = dial
		}
	}
}

// WithKeyValueOpener overrides how key-value clients are dialed.
func WithKeyValueOpener(dial ClientOpener) Option {
	return func(in *Interpreter) {
		if dial != nil {
			in.openClient = dial
		}
	}
}

// NewInterpreter builds an assembly interpreter.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		openPool: db.Dial,
		openClient: func(ctx context.Context, url string) (kv.Client, error) {
			return kv.DialRedis(ctx, url)
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interpreter) Handle(ctx context.Context, eff effects.Effect) (any, error) {
	switch e := eff.(type) {
	case OpenDatabase:
		pool, err := in.openPool(ctx, e.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database pool: %w", err)
		}
		return Handle[db.Pool]{Kind: KindDatabasePool, Resource: pool}, nil
	case OpenKeyValue:
		client, err := in.openClient(ctx, e.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open key-value client: %w", err)
		}
		return Handle[kv.Client]{Kind: KindKeyValueClient, Resource: client}, nil
	case CloseDatabase:
		if e.Handle.Resource == nil {
			return nil, fmt.Errorf("cannot close empty handle")
		}
		e.Handle.Resource.Close()
		return Closed{Kind: KindDatabasePool}, nil
	case CloseKeyValue:
		if e.Handle.Resource == nil {
			return nil, fmt.Errorf("cannot close empty handle")
		}
		if err := e.Handle.Resource.Close(); err != nil {
			return nil, fmt.Errorf("failed to close key-value client: %w", err)
		}
		return Closed{Kind: KindKeyValueClient}, nil
	default:
		return nil, fmt.Errorf("unexpected assembly effect: %T", eff)
	}
}
