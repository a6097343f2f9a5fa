package kv

import (
	"context"
	"fmt"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Interpreter is the kv leaf: it executes kv effects against a Client.
// Missing keys are modeled outcomes; only backend failures come back as
// errors. The interpreter does not own the client's lifecycle, see
// WithClient for scoped use.
type Interpreter struct {
	client Client
}

var _ effects.Interpreter = (*Interpreter)(nil)

// NewInterpreter builds the kv interpreter over client.
func NewInterpreter(client Client) *Interpreter {
	return &Interpreter{client: client}
}

// Handle executes one kv effect.
func (it *Interpreter) Handle(ctx context.Context, eff effects.Effect) (any, error) {
	switch e := eff.(type) {
	case Get:
		value, found, err := it.client.Get(ctx, e.Key)
		if err != nil {
			return nil, err
		}
		return GetResult{Value: value, Found: found}, nil
	case Set:
		if err := it.client.Set(ctx, e.Key, e.Value, e.TTL); err != nil {
			return nil, err
		}
		return SetDone{}, nil
	case Delete:
		deleted, err := it.client.Delete(ctx, e.Key)
		if err != nil {
			return nil, err
		}
		return DeleteResult{Deleted: deleted}, nil
	case Publish:
		receivers, err := it.client.Publish(ctx, e.Channel, e.Payload)
		if err != nil {
			return nil, err
		}
		return PublishResult{Receivers: receivers}, nil
	default:
		return nil, fmt.Errorf("unexpected kv effect: %T", eff)
	}
}
