package db

import (
	"context"
	"fmt"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

var _ effects.Interpreter = (*Interpreter)(nil)

// Interpreter executes db effects against a Pool.
type Interpreter struct {
	pool Pool
}

// NewInterpreter wraps a pool. The caller keeps ownership and closes it.
func NewInterpreter(pool Pool) *Interpreter {
	return &Interpreter{pool: pool}
}

func (in *Interpreter) Handle(ctx context.Context, eff effects.Effect) (any, error) {
	switch e := eff.(type) {
	case Execute:
		tag, err := in.pool.Execute(ctx, e.Query, e.Args...)
		if err != nil {
			return nil, err
		}
		return CommandTag{Tag: tag}, nil
	case Fetch:
		rows, err := in.pool.Fetch(ctx, e.Query, e.Args...)
		if err != nil {
			return nil, err
		}
		return rows, nil
	case FetchRow:
		row, found, err := in.pool.FetchRow(ctx, e.Query, e.Args...)
		if err != nil {
			return nil, err
		}
		return RowResult{Row: row, Found: found}, nil
	case FetchVal:
		val, found, err := in.pool.FetchVal(ctx, e.Query, e.Args...)
		if err != nil {
			return nil, err
		}
		return ValueResult{Value: val, Found: found}, nil
	default:
		return nil, fmt.Errorf("unexpected db effect: %T", eff)
	}
}
